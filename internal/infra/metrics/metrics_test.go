package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domainerrors "hub/internal/domain/errors"
	"hub/internal/errors"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRemote(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "test")

	m.ObserveRemote("products", "insert", 10*time.Millisecond, nil)
	m.ObserveRemote("products", "insert", 10*time.Millisecond, errors.New("boom"))
	m.ObserveRemote("products", "insert", 10*time.Millisecond, nil)

	assert.InDelta(t, 2, testutil.ToFloat64(m.remoteOps.WithLabelValues("products", "insert", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.remoteOps.WithLabelValues("products", "insert", "error")), 0)
}

func TestMetrics_SetSize(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "test")

	m.SetSize("users", 3)
	m.SetSize("users", 5)

	assert.InDelta(t, 5, testutil.ToFloat64(m.collectionSize.WithLabelValues("users")), 0)
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "test")

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/denied", func(echo.Context) error { return domainerrors.ErrPermissionDenied })
	e.GET("/metrics", m.Handler())

	for _, path := range []string{"/ok", "/denied"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 1, testutil.ToFloat64(m.apiErrors.WithLabelValues(http.MethodGet, "/denied", "403")), 0)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "test_http_request_duration_seconds"))
}

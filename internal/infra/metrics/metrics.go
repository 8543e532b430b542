// Package metrics exposes entity store and HTTP bridge activity to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"hub/config"
	domainerrors "hub/internal/domain/errors"
	"hub/internal/errors"
	"hub/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// Compile-time contract assertion.
var _ service.OperationRecorder = (*Metrics)(nil)

// Metrics holds every collector of the hub.
type Metrics struct {
	gatherer prometheus.Gatherer

	remoteOps      *prometheus.CounterVec
	remoteDuration *prometheus.HistogramVec
	collectionSize *prometheus.GaugeVec

	requestDuration *prometheus.HistogramVec
	apiErrors       *prometheus.CounterVec
}

// Params defines the parameters required for metrics
type Params struct {
	fx.In

	Config *config.Config
}

// New registers the collectors on a dedicated registry.
func New(params Params) *Metrics {
	namespace := "hub"
	if params.Config.Metrics != nil && params.Config.Metrics.Namespace != "" {
		namespace = params.Config.Metrics.Namespace
	}

	return NewWithRegistry(prometheus.NewRegistry(), namespace)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		remoteOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_remote_operations_total",
				Help:      "Total number of remote document store calls",
			},
			[]string{"store", "operation", "result"},
		),
		remoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_remote_operation_duration_seconds",
				Help:      "Duration of remote document store calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"store", "operation"},
		),
		collectionSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "store_collection_size",
				Help:      "Number of entities held by an entity store",
			},
			[]string{"store"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		apiErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_errors_total",
				Help:      "Total number of API errors",
			},
			[]string{"method", "path", "status"},
		),
	}
}

// ObserveRemote records one call to the remote document store.
func (m *Metrics) ObserveRemote(store, op string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	m.remoteOps.With(prometheus.Labels{"store": store, "operation": op, "result": result}).Inc()
	m.remoteDuration.With(prometheus.Labels{"store": store, "operation": op}).Observe(elapsed.Seconds())
}

// SetSize records the size of a store's local collection.
func (m *Metrics) SetSize(store string, n int) {
	m.collectionSize.With(prometheus.Labels{"store": store}).Set(float64(n))
}

// Middleware tracks request metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = statusOf(err)
			}
			labels := prometheus.Labels{
				"method": c.Request().Method,
				"path":   c.Path(),
				"status": strconv.Itoa(status),
			}
			m.requestDuration.With(labels).Observe(time.Since(start).Seconds())
			if status >= 400 {
				m.apiErrors.With(labels).Inc()
			}

			return err
		}
	}
}

// statusOf predicts the status the error handler will write for err.
func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode()
	}

	return http.StatusInternalServerError
}

// Handler returns the scrape endpoint for the registry.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}

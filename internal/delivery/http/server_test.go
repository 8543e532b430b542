package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hub/config"
	bridge "hub/internal/delivery/http"
	"hub/internal/delivery/http/middleware"
	"hub/internal/delivery/http/router"
	"hub/internal/delivery/http/router/handler"
	"hub/internal/infra/auth"
	"hub/internal/infra/metrics"
	"hub/internal/infra/persistence/memdoc"
	"hub/internal/infra/snapshot"
	"hub/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
		Count     *int   `json:"count"`
		Stale     bool   `json:"stale"`
	} `json:"meta"`
}

type loginData struct {
	Token string `json:"token"`
	Actor struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"actor"`
}

func newTestBridge(t *testing.T) *echo.Echo {
	t.Helper()

	cfg := &config.Config{
		Store: &config.StoreConfig{PageSize: 50},
		Auth:  &config.AuthConfig{SecretMode: config.SecretModePlain},
		Seed: &config.SeedConfig{Admin: &config.SeedAccount{
			Username: "admin",
			Email:    "admin@snuli.com",
			Password: "admin123",
		}},
	}
	cfg.SecretKey.Access = "bridge-test-secret"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	snapshots, err := snapshot.NewInMemory(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = snapshots.Close() })

	remote := memdoc.New()
	verifier := auth.NewPlainVerifier()
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	users := impl.NewUserStore(impl.UserStoreParams{Remote: remote, Snapshots: snapshots, Verifier: verifier, Config: cfg, Logger: logger})
	products := impl.NewProductStore(impl.ProductStoreParams{Remote: remote, Snapshots: snapshots, Config: cfg, Logger: logger})
	purchases := impl.NewPurchaseStore(impl.PurchaseStoreParams{Remote: remote, Snapshots: snapshots, Products: products, Config: cfg, Logger: logger})
	posts := impl.NewPostStore(impl.PostStoreParams{Remote: remote, Snapshots: snapshots, Config: cfg, Logger: logger})
	stats := impl.NewStatsStore(impl.StatsStoreParams{Remote: remote, Users: users, Posts: posts, Logger: logger})
	gate := impl.NewSessionGate(impl.SessionGateParams{Users: users, Verifier: verifier, Snapshots: snapshots, Logger: logger})

	require.NoError(t, users.Load(context.Background()))

	m := metrics.NewWithRegistry(prometheus.NewRegistry(), "hub")

	return bridge.NewEcho(bridge.ServerParams{
		Cfg:     cfg,
		Logger:  logger,
		Metrics: m,
		RouterParams: router.RouterParams{
			SessionHandler:  handler.NewSessionHandler(handler.SessionHandlerParams{Gate: gate, TokenSvc: tokens, Logger: logger}),
			UserHandler:     handler.NewUserHandler(handler.UserHandlerParams{Users: users}),
			ProductHandler:  handler.NewProductHandler(handler.ProductHandlerParams{Products: products}),
			PurchaseHandler: handler.NewPurchaseHandler(handler.PurchaseHandlerParams{Purchases: purchases}),
			PostHandler:     handler.NewPostHandler(handler.PostHandlerParams{Posts: posts}),
			StatsHandler: handler.NewStatsHandler(handler.StatsHandlerParams{
				Stats: stats, Users: users, Products: products, Purchases: purchases, Posts: posts,
			}),
			AuthMiddleware: middleware.NewAuthMiddleware(middleware.AuthMiddlewareParams{TokenSvc: tokens, Gate: gate}),
			Metrics:        m,
		},
	})
}

func call(t *testing.T, e *echo.Echo, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func login(t *testing.T, e *echo.Echo, identifier, password string) loginData {
	t.Helper()

	rec, env := call(t, e, http.MethodPost, "/session", "", `{"identifier":"`+identifier+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var data loginData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)

	return data
}

func TestBridge_HealthAndRequestID(t *testing.T) {
	e := newTestBridge(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
	assert.Contains(t, rec.Body.String(), `"request_id":"req-42"`)
}

func TestBridge_Login(t *testing.T) {
	e := newTestBridge(t)

	t.Run("by email", func(t *testing.T) {
		data := login(t, e, "admin@snuli.com", "admin123")
		assert.Equal(t, "admin", data.Actor.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, env := call(t, e, http.MethodPost, "/session", "", `{"identifier":"admin","password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec, env := call(t, e, http.MethodPost, "/session", "", `{"identifier":"admin"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	})
}

func TestBridge_RequiresSession(t *testing.T) {
	e := newTestBridge(t)

	rec, env := call(t, e, http.MethodGet, "/products", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "MISSING_TOKEN", env.Error.Code)

	rec, _ = call(t, e, http.MethodGet, "/products", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBridge_TokenFollowsCurrentSession(t *testing.T) {
	e := newTestBridge(t)
	admin := login(t, e, "admin", "admin123")

	rec, _ := call(t, e, http.MethodPost, "/users", admin.Token,
		`{"username":"fr000001","email":"fr1@snuli.com","password":"secret-1","role":"distributing_franchise","permissions":{"canAddProducts":true}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	franchise := login(t, e, "fr000001", "secret-1")

	// Signing in the franchise ended the administrator's session.
	rec, env := call(t, e, http.MethodGet, "/session", admin.Token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NO_SESSION", env.Error.Code)

	rec, env = call(t, e, http.MethodGet, "/session", franchise.Token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), franchise.Actor.ID)

	rec, _ = call(t, e, http.MethodDelete, "/session", franchise.Token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = call(t, e, http.MethodGet, "/session", franchise.Token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBridge_ProductsAndFeatured(t *testing.T) {
	e := newTestBridge(t)
	admin := login(t, e, "admin", "admin123")

	rec, env := call(t, e, http.MethodPost, "/products", admin.Token, `{"name":"Soy Milk","price":120,"stock":50}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product struct {
		ID         string `json:"id"`
		IsFeatured bool   `json:"isFeatured"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))

	rec, _ = call(t, e, http.MethodGet, "/products/featured", admin.Token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = call(t, e, http.MethodPut, "/products/"+product.ID+"/featured", admin.Token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, env = call(t, e, http.MethodGet, "/products/featured", admin.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), product.ID)

	rec, env = call(t, e, http.MethodPost, "/products", admin.Token, `{"name":"","price":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestBridge_CustomerCannotCreateProduct(t *testing.T) {
	e := newTestBridge(t)
	admin := login(t, e, "admin", "admin123")

	rec, _ := call(t, e, http.MethodPost, "/users", admin.Token,
		`{"username":"cu000001","email":"cu1@snuli.com","password":"secret-1","role":"customer"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	customer := login(t, e, "cu000001", "secret-1")

	rec, env := call(t, e, http.MethodPost, "/products", customer.Token, `{"name":"Tofu","price":80,"stock":5}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PERMISSION_DENIED", env.Error.Code)
	assert.Nil(t, env.Error.Details)

	rec, _ = call(t, e, http.MethodPost, "/users", customer.Token,
		`{"username":"cu000002","email":"cu2@snuli.com","password":"secret-2","role":"customer"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBridge_FeedThread(t *testing.T) {
	e := newTestBridge(t)
	admin := login(t, e, "admin", "admin123")

	rec, env := call(t, e, http.MethodPost, "/posts", admin.Token, `{"content":"Grand opening"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &post))

	rec, env = call(t, e, http.MethodPost, "/posts/"+post.ID+"/like", admin.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"liked":true}`, string(env.Data))

	rec, env = call(t, e, http.MethodPost, "/posts/"+post.ID+"/comments", admin.Token, `{"content":"Congrats"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var comment struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &comment))

	rec, _ = call(t, e, http.MethodPost, "/posts/"+post.ID+"/comments/"+comment.ID+"/replies", admin.Token, `{"content":"Thanks"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, env = call(t, e, http.MethodGet, "/posts/popular?window=all", admin.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Grand opening")

	rec, _ = call(t, e, http.MethodGet, "/posts/popular?window=week", admin.Token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = call(t, e, http.MethodPost, "/posts", admin.Token, `{"content":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBridge_StatsAndMetrics(t *testing.T) {
	e := newTestBridge(t)
	admin := login(t, e, "admin", "admin123")

	rec, env := call(t, e, http.MethodGet, "/stats/franchises", admin.Token, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), `"total":0`)

	rec, env = call(t, e, http.MethodGet, "/stats/stores", admin.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stores map[string]struct {
		Size     int     `json:"size"`
		LoadedAt *string `json:"loadedAt"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stores))
	assert.Len(t, stores, 5)
	assert.Equal(t, 1, stores["users"].Size)
	assert.NotNil(t, stores["users"].LoadedAt)

	rec, env = call(t, e, http.MethodGet, "/users", admin.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta.Count)
	assert.Equal(t, 1, *env.Meta.Count)

	rec, _ = call(t, e, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hub_")
}

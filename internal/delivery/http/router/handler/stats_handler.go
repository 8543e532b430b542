package handler

import (
	"net/http"
	"time"

	"hub/internal/delivery/http/response"
	"hub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// StatsHandlerParams holds dependencies for StatsHandler, injected by Fx.
type StatsHandlerParams struct {
	fx.In

	Stats     usecase.StatsStore
	Users     usecase.UserStore
	Products  usecase.ProductStore
	Purchases usecase.PurchaseStore
	Posts     usecase.PostStore
}

// StatsHandler serves dashboard figures and the health of every store.
type StatsHandler struct {
	stats  usecase.StatsStore
	stores map[string]func() usecase.Status
	now    func() time.Time
}

// NewStatsHandler is the constructor for StatsHandler
func NewStatsHandler(params StatsHandlerParams) *StatsHandler {
	return &StatsHandler{
		stats: params.Stats,
		stores: map[string]func() usecase.Status{
			"users":     params.Users.Status,
			"products":  params.Products.Status,
			"purchases": params.Purchases.Status,
			"posts":     params.Posts.Status,
			"stats":     params.Stats.Status,
		},
		now: time.Now,
	}
}

// Franchises returns the cached franchise counts, refreshing them on
// ?refresh=true or when they were never computed. A failed refresh still
// answers with the previous counts when there are any.
func (h *StatsHandler) Franchises(c echo.Context) error {
	stats, ok := h.stats.Snapshot()
	if refreshRequested(c) || !ok {
		refreshed, err := h.stats.Refresh(c.Request().Context())
		switch {
		case err != nil && !ok:
			return response.HandleAppError(c, err)
		case err != nil:
			return response.Stale(c, stats)
		}
		stats = refreshed
	}

	return response.Success(c, http.StatusOK, stats)
}

// Engagement summarizes feed activity.
func (h *StatsHandler) Engagement(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.stats.Engagement(h.now()))
}

// Stores reports loading state, last error and size of every store.
func (h *StatsHandler) Stores(c echo.Context) error {
	statuses := make(map[string]usecase.Status, len(h.stores))
	for name, status := range h.stores {
		statuses[name] = status()
	}

	return response.StoreStates(c, statuses)
}

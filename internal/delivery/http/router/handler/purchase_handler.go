package handler

import (
	"net/http"

	deliverycontext "hub/internal/delivery/context"
	"hub/internal/delivery/http/response"
	"hub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// PurchaseHandlerParams holds dependencies for PurchaseHandler, injected by Fx.
type PurchaseHandlerParams struct {
	fx.In

	Purchases usecase.PurchaseStore
}

// PurchaseHandler serves the purchase history.
type PurchaseHandler struct {
	purchases usecase.PurchaseStore
}

// NewPurchaseHandler is the constructor for PurchaseHandler
func NewPurchaseHandler(params PurchaseHandlerParams) *PurchaseHandler {
	return &PurchaseHandler{purchases: params.Purchases}
}

// List returns the loaded purchases joined with the catalog. On
// ?refresh=true the caller's purchases are reloaded first; the administrator
// may load another buyer with ?userId or every buyer with ?userId=all.
func (h *PurchaseHandler) List(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	if refreshRequested(c) {
		filter := usecase.PurchaseFilter{UserID: by.ID}
		if userID := c.QueryParam("userId"); userID != "" && by.IsAdmin() {
			filter.UserID = userID
			if userID == "all" {
				filter.UserID = ""
			}
		}
		if err := h.purchases.Load(c.Request().Context(), filter); err != nil {
			return response.HandleAppError(c, err)
		}
	}

	return response.List(c, h.purchases.Lines())
}

// Create records a purchase for the caller.
func (h *PurchaseHandler) Create(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	var input usecase.CreatePurchaseInput
	if handled, err := bindAndValidate(c, &input); handled {
		return err
	}

	created, err := h.purchases.Create(c.Request().Context(), by, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, created)
}

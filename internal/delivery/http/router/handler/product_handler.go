package handler

import (
	"net/http"

	deliverycontext "hub/internal/delivery/context"
	"hub/internal/delivery/http/response"
	"hub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ProductHandlerParams holds dependencies for ProductHandler, injected by Fx.
type ProductHandlerParams struct {
	fx.In

	Products usecase.ProductStore
}

// ProductHandler serves the catalog.
type ProductHandler struct {
	products usecase.ProductStore
}

// NewProductHandler is the constructor for ProductHandler
func NewProductHandler(params ProductHandlerParams) *ProductHandler {
	return &ProductHandler{products: params.Products}
}

// List returns the local catalog. On ?refresh=true the catalog is reloaded
// first, scoped to ?franchiseId when given.
func (h *ProductHandler) List(c echo.Context) error {
	if refreshRequested(c) {
		filter := usecase.ProductFilter{FranchiseID: c.QueryParam("franchiseId")}
		if err := h.products.Load(c.Request().Context(), filter); err != nil {
			return response.HandleAppError(c, err)
		}
	}

	return response.List(c, h.products.All())
}

// Get returns one product.
func (h *ProductHandler) Get(c echo.Context) error {
	product, ok := h.products.FindByID(c.Param("id"))
	if !ok {
		return response.NotFound(c, "NOT_FOUND", "Product not found")
	}

	return response.Success(c, http.StatusOK, product)
}

// Featured returns the featured product of the loaded scope.
func (h *ProductHandler) Featured(c echo.Context) error {
	product, ok := h.products.Featured()
	if !ok {
		return response.NotFound(c, "NOT_FOUND", "No featured product")
	}

	return response.Success(c, http.StatusOK, product)
}

// Create adds a catalog entry.
func (h *ProductHandler) Create(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	var input usecase.CreateProductInput
	if handled, err := bindAndValidate(c, &input); handled {
		return err
	}

	created, err := h.products.Create(c.Request().Context(), by, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, created)
}

// Update applies a partial change to a product.
func (h *ProductHandler) Update(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	var changes usecase.ProductChanges
	if handled, err := bindAndValidate(c, &changes); handled {
		return err
	}

	id := c.Param("id")
	if err := h.products.Update(c.Request().Context(), by, id, changes); err != nil {
		return response.HandleAppError(c, err)
	}

	updated, _ := h.products.FindByID(id)

	return response.Success(c, http.StatusOK, updated)
}

// Remove deletes a product.
func (h *ProductHandler) Remove(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	if err := h.products.Remove(c.Request().Context(), by, c.Param("id")); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SetFeatured makes the product the only featured one of its scope.
func (h *ProductHandler) SetFeatured(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	id := c.Param("id")
	if err := h.products.SetFeatured(c.Request().Context(), by, id); err != nil {
		return response.HandleAppError(c, err)
	}

	featured, _ := h.products.FindByID(id)

	return response.Success(c, http.StatusOK, featured)
}

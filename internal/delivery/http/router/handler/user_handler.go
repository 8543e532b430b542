package handler

import (
	"context"
	"net/http"

	deliverycontext "hub/internal/delivery/context"
	"hub/internal/delivery/http/response"
	"hub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// UserHandlerParams holds dependencies for UserHandler, injected by Fx.
type UserHandlerParams struct {
	fx.In

	Users usecase.UserStore
}

// UserHandler serves accounts and their relationships.
type UserHandler struct {
	users usecase.UserStore
}

// NewUserHandler is the constructor for UserHandler
func NewUserHandler(params UserHandlerParams) *UserHandler {
	return &UserHandler{users: params.Users}
}

// List returns the local users collection, reloading it first on ?refresh=true.
func (h *UserHandler) List(c echo.Context) error {
	if refreshRequested(c) {
		if err := h.users.Load(c.Request().Context()); err != nil {
			return response.HandleAppError(c, err)
		}
	}

	return response.List(c, h.users.All())
}

// Get returns one account.
func (h *UserHandler) Get(c echo.Context) error {
	actor, ok := h.users.FindByID(c.Param("id"))
	if !ok {
		return response.NotFound(c, "NOT_FOUND", "Account not found")
	}

	return response.Success(c, http.StatusOK, actor)
}

// Create registers a new account. Administrator only.
func (h *UserHandler) Create(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	var input usecase.CreateActorInput
	if handled, err := bindAndValidate(c, &input); handled {
		return err
	}

	created, err := h.users.Create(c.Request().Context(), by, input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, created)
}

// Update applies a partial change to an account the caller may manage.
func (h *UserHandler) Update(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	id := c.Param("id")
	var changes usecase.ActorChanges
	if handled, err := bindAndValidate(c, &changes); handled {
		return err
	}

	if err := h.users.Update(c.Request().Context(), by, id, changes); err != nil {
		return response.HandleAppError(c, err)
	}

	updated, _ := h.users.FindByID(id)

	return response.Success(c, http.StatusOK, updated)
}

// Remove deletes an account and detaches it from every relationship.
func (h *UserHandler) Remove(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	if err := h.users.Remove(c.Request().Context(), by, c.Param("id")); err != nil {
		return response.HandleAppError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ToggleStatus flips the active flag of an account. Administrator only.
func (h *UserHandler) ToggleStatus(c echo.Context) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	id := c.Param("id")
	if err := h.users.ToggleStatus(c.Request().Context(), by, id); err != nil {
		return response.HandleAppError(c, err)
	}

	updated, _ := h.users.FindByID(id)

	return response.Success(c, http.StatusOK, updated)
}

// Follow makes the caller follow the account.
func (h *UserHandler) Follow(c echo.Context) error {
	return h.relate(c, h.users.Follow)
}

// Unfollow stops following the account.
func (h *UserHandler) Unfollow(c echo.Context) error {
	return h.relate(c, h.users.Unfollow)
}

// TeamUp adds the account to the caller's team.
func (h *UserHandler) TeamUp(c echo.Context) error {
	return h.relate(c, h.users.TeamUp)
}

// Unteam removes the account from the caller's team.
func (h *UserHandler) Unteam(c echo.Context) error {
	return h.relate(c, h.users.Unteam)
}

type relationView struct {
	Following bool `json:"following"`
	Teammate  bool `json:"teammate"`
}

func (h *UserHandler) relate(c echo.Context, op func(ctx context.Context, actorID, targetID string) error) error {
	by, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	target := c.Param("id")
	if err := op(c.Request().Context(), by.ID, target); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, relationView{
		Following: h.users.IsFollowing(by.ID, target),
		Teammate:  h.users.IsTeammate(by.ID, target),
	})
}

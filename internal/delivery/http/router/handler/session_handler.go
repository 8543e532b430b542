package handler

import (
	"log/slog"
	"net/http"
	"time"

	deliverycontext "hub/internal/delivery/context"
	"hub/internal/delivery/http/response"
	"hub/internal/domain/entity"
	"hub/internal/domain/service"
	"hub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// SessionHandlerParams holds dependencies for SessionHandler, injected by Fx.
type SessionHandlerParams struct {
	fx.In

	Gate     usecase.SessionGate
	TokenSvc service.TokenService
	Logger   *slog.Logger
}

// SessionHandler signs the operator in and out.
type SessionHandler struct {
	gate     usecase.SessionGate
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler
func NewSessionHandler(params SessionHandlerParams) *SessionHandler {
	return &SessionHandler{
		gate:     params.Gate,
		tokenSvc: params.TokenSvc,
		logger:   params.Logger,
	}
}

// LoginRequest identifies an account by username or email.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token bound to the new session.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	Actor     entity.Actor `json:"actor"`
}

// Login authenticates through the gate and issues a token for the session.
func (h *SessionHandler) Login(c echo.Context) error {
	var req LoginRequest
	if handled, err := bindAndValidate(c, &req); handled {
		return err
	}

	actor, err := h.gate.Authenticate(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	token, expiresAt, err := h.tokenSvc.Issue(actor.ID, actor.Role.String())
	if err != nil {
		h.logger.Error("Failed to issue session token", slog.String("actor_id", actor.ID), slog.Any("error", err))

		return response.InternalServerError(c, "TOKEN_ISSUE_FAILED", "Failed to issue session token")
	}

	return response.Success(c, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Actor:     *actor,
	})
}

// Logout ends the current session.
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.gate.EndSession(c.Request().Context()); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Signed out"})
}

// Me returns the acting account.
func (h *SessionHandler) Me(c echo.Context) error {
	actor, ok := deliverycontext.GetActor(c)
	if !ok {
		return noSession(c)
	}

	return response.Success(c, http.StatusOK, actor)
}

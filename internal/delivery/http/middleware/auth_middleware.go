package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "hub/internal/delivery/context"
	"hub/internal/delivery/http/response"
	"hub/internal/domain/service"
	"hub/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	TokenSvc service.TokenService
	Gate     usecase.SessionGate
}

// AuthMiddleware binds bearer tokens to the gate's current session.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	gate     usecase.SessionGate
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: params.TokenSvc, gate: params.Gate}
}

// Authenticate validates the bearer token and requires its subject to be the
// actor currently signed in on the gate.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "MISSING_TOKEN", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.Validate(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		actor, ok := m.gate.Current()
		if !ok || actor.ID != claims.ActorID() {
			return response.Unauthorized(c, "NO_SESSION", "Token does not belong to the current session")
		}

		deliverycontext.SetActor(c, actor)

		ctx := c.Request().Context()
		if logger := deliverycontext.GetLogger(ctx); logger != nil {
			ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("actor_id", actor.ID)))
			c.SetRequest(c.Request().WithContext(ctx))
		}

		return next(c)
	}
}

// RequireAdmin must be used after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := deliverycontext.GetActor(c)
		if !ok || !actor.IsAdmin() {
			return response.Forbidden(c, "PERMISSION_DENIED", "Permission denied: administrator required")
		}

		return next(c)
	}
}

// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"hub/internal/delivery/http/middleware"
	"hub/internal/delivery/http/router/handler"
	"hub/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	SessionHandler  *handler.SessionHandler
	UserHandler     *handler.UserHandler
	ProductHandler  *handler.ProductHandler
	PurchaseHandler *handler.PurchaseHandler
	PostHandler     *handler.PostHandler
	StatsHandler    *handler.StatsHandler
	AuthMiddleware  *middleware.AuthMiddleware
	Metrics         *metrics.Metrics `optional:"true"`
}

// router holds all the handlers that need to be registered.
type router struct {
	sessionHandler  *handler.SessionHandler
	userHandler     *handler.UserHandler
	productHandler  *handler.ProductHandler
	purchaseHandler *handler.PurchaseHandler
	postHandler     *handler.PostHandler
	statsHandler    *handler.StatsHandler
	authMiddleware  *middleware.AuthMiddleware
	metrics         *metrics.Metrics
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		sessionHandler:  params.SessionHandler,
		userHandler:     params.UserHandler,
		productHandler:  params.ProductHandler,
		purchaseHandler: params.PurchaseHandler,
		postHandler:     params.PostHandler,
		statsHandler:    params.StatsHandler,
		authMiddleware:  params.AuthMiddleware,
		metrics:         params.Metrics,
	}
}

// RegisterRoutes sets up all the bridge routes.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	if r.metrics != nil {
		e.GET("/metrics", r.metrics.Handler())
	}

	authenticate := r.authMiddleware.Authenticate

	// Session routes; login is the only public write
	e.POST("/session", r.sessionHandler.Login)
	e.GET("/session", r.sessionHandler.Me, authenticate)
	e.DELETE("/session", r.sessionHandler.Logout, authenticate)

	userGroup := e.Group("/users", authenticate)
	{
		userGroup.GET("", r.userHandler.List)
		userGroup.GET("/:id", r.userHandler.Get)
		userGroup.POST("", r.userHandler.Create, r.authMiddleware.RequireAdmin)
		userGroup.PATCH("/:id", r.userHandler.Update)
		userGroup.DELETE("/:id", r.userHandler.Remove)
		userGroup.POST("/:id/toggle-status", r.userHandler.ToggleStatus, r.authMiddleware.RequireAdmin)
		userGroup.PUT("/:id/follow", r.userHandler.Follow)
		userGroup.DELETE("/:id/follow", r.userHandler.Unfollow)
		userGroup.PUT("/:id/team", r.userHandler.TeamUp)
		userGroup.DELETE("/:id/team", r.userHandler.Unteam)
	}

	productGroup := e.Group("/products", authenticate)
	{
		productGroup.GET("", r.productHandler.List)
		productGroup.GET("/featured", r.productHandler.Featured)
		productGroup.GET("/:id", r.productHandler.Get)
		productGroup.POST("", r.productHandler.Create)
		productGroup.PATCH("/:id", r.productHandler.Update)
		productGroup.DELETE("/:id", r.productHandler.Remove)
		productGroup.PUT("/:id/featured", r.productHandler.SetFeatured)
	}

	purchaseGroup := e.Group("/purchases", authenticate)
	{
		purchaseGroup.GET("", r.purchaseHandler.List)
		purchaseGroup.POST("", r.purchaseHandler.Create)
	}

	postGroup := e.Group("/posts", authenticate)
	{
		postGroup.GET("", r.postHandler.List)
		postGroup.GET("/popular", r.postHandler.Popular)
		postGroup.POST("", r.postHandler.Create)
		postGroup.DELETE("/:id", r.postHandler.Remove)
		postGroup.POST("/:id/like", r.postHandler.ToggleLike)
		postGroup.POST("/:id/comments", r.postHandler.AddComment)
		postGroup.DELETE("/:id/comments/:commentId", r.postHandler.RemoveComment)
		postGroup.POST("/:id/comments/:commentId/like", r.postHandler.ToggleCommentLike)
		postGroup.POST("/:id/comments/:commentId/replies", r.postHandler.AddReply)
		postGroup.DELETE("/:id/comments/:commentId/replies/:replyId", r.postHandler.RemoveReply)
		postGroup.POST("/:id/comments/:commentId/replies/:replyId/like", r.postHandler.ToggleReplyLike)
	}

	statsGroup := e.Group("/stats", authenticate)
	{
		statsGroup.GET("/franchises", r.statsHandler.Franchises)
		statsGroup.GET("/engagement", r.statsHandler.Engagement)
		statsGroup.GET("/stores", r.statsHandler.Stores)
	}
}

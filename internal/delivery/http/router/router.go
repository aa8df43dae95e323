// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"harvest/config"
	"harvest/internal/delivery/http/middleware"
	"harvest/internal/delivery/http/router/handler"
	"harvest/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// RouterParams holds the handlers and middleware, injected by Fx.
type RouterParams struct {
	fx.In

	Cfg            *config.Config
	AuthHandler    *handler.AuthHandler
	ProductHandler *handler.ProductHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	AddressHandler *handler.AddressHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	cfg            *config.Config
	authHandler    *handler.AuthHandler
	productHandler *handler.ProductHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	addressHandler *handler.AddressHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{
		cfg:            params.Cfg,
		authHandler:    params.AuthHandler,
		productHandler: params.ProductHandler,
		cartHandler:    params.CartHandler,
		orderHandler:   params.OrderHandler,
		addressHandler: params.AddressHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	if r.cfg.Metrics != nil && r.cfg.Metrics.Enabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	api := e.Group("/api/v1")

	// Auth routes. Logout, profile and password change need a valid session.
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout, r.authMiddleware.Authenticate)
		authGroup.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
		authGroup.PUT("/password", r.authHandler.ChangePassword, r.authMiddleware.Authenticate)
	}

	// Catalog routes. Reads are public; mutations require the producer role.
	productGroup := api.Group("/products")
	{
		productGroup.GET("", r.productHandler.List)
		productGroup.GET("/:id", r.productHandler.Get)

		producerOnly := []echo.MiddlewareFunc{
			r.authMiddleware.Authenticate,
			r.authMiddleware.RequireRole(entity.RoleProducer),
		}
		productGroup.POST("", r.productHandler.Create, producerOnly...)
		productGroup.PUT("/:id", r.productHandler.Update, producerOnly...)
		productGroup.DELETE("/:id", r.productHandler.Delete, producerOnly...)
		productGroup.POST("/:id/discounts", r.productHandler.AddDiscount, producerOnly...)
	}

	// Cart routes.
	cartGroup := api.Group("/cart", r.authMiddleware.Authenticate)
	{
		cartGroup.GET("", r.cartHandler.Get)
		cartGroup.DELETE("", r.cartHandler.Clear)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.PUT("/items/:id", r.cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:id", r.cartHandler.RemoveItem)
		cartGroup.PATCH("/items/:id/select", r.cartHandler.SetSelected)
	}

	// Order routes.
	orderGroup := api.Group("/orders", r.authMiddleware.Authenticate)
	{
		orderGroup.POST("", r.orderHandler.Checkout)
		orderGroup.GET("", r.orderHandler.List)
		orderGroup.GET("/:id", r.orderHandler.Get)
		orderGroup.PATCH("/:id/cancel", r.orderHandler.Cancel)
	}

	// Admin routes.
	adminGroup := api.Group("/admin",
		r.authMiddleware.Authenticate,
		r.authMiddleware.RequireRole(entity.RoleAdmin),
	)
	{
		adminGroup.PUT("/orders/:id/status", r.orderHandler.SetStatus)
	}

	// Address routes.
	addressGroup := api.Group("/addresses", r.authMiddleware.Authenticate)
	{
		addressGroup.GET("", r.addressHandler.List)
		addressGroup.POST("", r.addressHandler.Create)
		addressGroup.PUT("/:id", r.addressHandler.Update)
		addressGroup.DELETE("/:id", r.addressHandler.Delete)
		addressGroup.PATCH("/:id/primary", r.addressHandler.SetPrimary)
	}
}

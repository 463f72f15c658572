// Package router maps the API surface onto handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/VyacheslavYnsk/RefactoringFinal/internal/config"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/handler"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/middleware"
	"github.com/VyacheslavYnsk/RefactoringFinal/internal/model"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Films      *handler.FilmHandler
	Halls      *handler.HallHandler
	Categories *handler.CategoryHandler
	Sessions   *handler.SessionHandler
	Tickets    *handler.TicketHandler
	Purchases  *handler.PurchaseHandler
	Payments   *handler.PaymentHandler
	Reviews    *handler.ReviewHandler
}

// Register mounts all routes.  Public browse endpoints sit behind the
// Redis response cache; everything is rate limited; booking and
// account endpoints require a JWT, catalog writes additionally require
// the ADMIN role.
func Register(e *echo.Echo, cfg config.Config, h Handlers, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.Use(limiter)

	// Session creation / auth.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	// Logout with a refresh token in the body needs no bearer.
	auth.POST("/logout", h.Auth.Logout)

	// Public browse endpoints, cached.
	pub := e.Group("/v1", cache)
	pub.GET("/films", h.Films.List)
	pub.GET("/films/:id", h.Films.Get)
	pub.GET("/films/:id/reviews", h.Reviews.ListByFilm)
	pub.GET("/halls", h.Halls.List)
	pub.GET("/halls/:id", h.Halls.Get)
	pub.GET("/halls/:id/plan", h.Halls.Plan)
	pub.GET("/categories", h.Categories.List)
	pub.GET("/categories/:id", h.Categories.Get)
	pub.GET("/sessions", h.Sessions.List)
	pub.GET("/sessions/:id", h.Sessions.Get)
	// Availability must be live, not cached.
	e.GET("/v1/sessions/:id/tickets", h.Tickets.ListBySession)

	// Authenticated surface (USER and ADMIN).
	user := e.Group("/v1")
	user.Use(middleware.JWTAuth(cfg.JWTSecret))
	user.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	user.GET("/me", h.Users.Me)
	user.PATCH("/me", h.Users.UpdateProfile)
	user.POST("/logout", h.Auth.Logout)

	user.POST("/tickets/:id/reserve", h.Tickets.Reserve)
	user.DELETE("/tickets/:id/reserve", h.Tickets.CancelReservation)

	user.POST("/purchases", h.Purchases.Create)
	user.GET("/purchases", h.Purchases.ListMine)
	user.GET("/purchases/:id", h.Purchases.Get)
	user.DELETE("/purchases/:id", h.Purchases.Cancel)

	user.POST("/payments", h.Payments.Process)
	user.GET("/payments/:id", h.Payments.GetStatus)

	user.POST("/films/:id/reviews", h.Reviews.Create)
	user.PATCH("/reviews/:id", h.Reviews.Update)
	user.DELETE("/reviews/:id", h.Reviews.Delete)

	// Catalog administration.
	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/films", h.Films.Create)
	admin.PATCH("/films/:id", h.Films.Update)
	admin.DELETE("/films/:id", h.Films.Delete)
	admin.POST("/halls", h.Halls.Create)
	admin.PATCH("/halls/:id", h.Halls.Update)
	admin.DELETE("/halls/:id", h.Halls.Delete)
	admin.PUT("/halls/:id/layout", h.Halls.SetLayout)
	admin.POST("/categories", h.Categories.Create)
	admin.PATCH("/categories/:id", h.Categories.Update)
	admin.DELETE("/categories/:id", h.Categories.Delete)
	admin.POST("/sessions", h.Sessions.Create)
	admin.PATCH("/sessions/:id", h.Sessions.Update)
	admin.DELETE("/sessions/:id", h.Sessions.Delete)
}

// Package sweetshop собирает HTTP-приложение магазина сладостей.
package sweetshop

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/sweet-shop/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/sweet-shop/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/sweet-shop/internal/http/handlers/health"
	"github.com/magabrotheeeer/sweet-shop/internal/http/handlers/sweets/create"
	"github.com/magabrotheeeer/sweet-shop/internal/http/handlers/sweets/list"
	"github.com/magabrotheeeer/sweet-shop/internal/http/handlers/sweets/purchase"
	"github.com/magabrotheeeer/sweet-shop/internal/http/handlers/sweets/read"
	"github.com/magabrotheeeer/sweet-shop/internal/http/handlers/sweets/remove"
	"github.com/magabrotheeeer/sweet-shop/internal/http/handlers/sweets/restock"
	"github.com/magabrotheeeer/sweet-shop/internal/http/handlers/sweets/search"
	"github.com/magabrotheeeer/sweet-shop/internal/http/handlers/sweets/update"
	"github.com/magabrotheeeer/sweet-shop/internal/http/middlewarectx"
)

// AuthService всё, что маршрутам нужно от сервиса аутентификации.
type AuthService interface {
	register.Service
	login.Service
	middlewarectx.Authenticator
}

// InventoryService всё, что маршрутам нужно от сервиса склада.
type InventoryService interface {
	list.Service
	search.Service
	read.Service
	create.Service
	update.Service
	remove.Service
	purchase.Service
	restock.Service
}

// Deps зависимости маршрутов.
type Deps struct {
	Auth      AuthService
	Inventory InventoryService
	DB        health.Pinger
	Limiter   *middlewarectx.RateLimiter
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(deps.Limiter, logger))
			r.Post("/auth/register", register.New(logger, deps.Auth).ServeHTTP)
			r.Post("/auth/login", login.New(logger, deps.Auth).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(deps.Auth, logger))
			r.Get("/sweets", list.New(logger, deps.Inventory).ServeHTTP)
			r.Get("/sweets/search", search.New(logger, deps.Inventory).ServeHTTP)
			r.Get("/sweets/{id}", read.New(logger, deps.Inventory).ServeHTTP)
			r.Post("/sweets", create.New(logger, deps.Inventory).ServeHTTP)
			r.Put("/sweets/{id}", update.New(logger, deps.Inventory).ServeHTTP)
			r.Delete("/sweets/{id}", remove.New(logger, deps.Inventory).ServeHTTP)
			r.Post("/sweets/{id}/purchase", purchase.New(logger, deps.Inventory).ServeHTTP)
			r.Post("/sweets/{id}/restock", restock.New(logger, deps.Inventory).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, deps.DB).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

package app

import (
	"github.com/avc/storefront-checkout/internal/config"
	"github.com/avc/storefront-checkout/internal/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// setupRouter создает и настраивает роутер
func setupRouter(deps *dependencies, cfg *config.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	setupMiddleware(r, logger)

	setupRoutes(r, deps, cfg)

	return r
}

// setupMiddleware настраивает middleware для роутера
func setupMiddleware(r *chi.Mux, logger *zap.Logger) {
	r.Use(handlers.RequestIDMiddleware())
	r.Use(handlers.LoggingMiddleware(logger))
	r.Use(handlers.RecoveryMiddleware(logger))
	r.Use(middleware.Compress(5))
}

// setupRoutes настраивает маршруты приложения
func setupRoutes(r *chi.Mux, deps *dependencies, cfg *config.Config) {
	h := deps.handlers

	// Служебные эндпоинты
	r.Get("/health", h.health.Health)
	r.Get("/ready", h.health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(handlers.TimeoutMiddleware(cfg.RequestTimeout))

		// Webhook платежного провайдера
		r.With(handlers.WebhookSecretMiddleware(cfg.WebhookSecret)).
			Post("/payments/capture", h.payments.Capture)

		// Защищенные эндпоинты
		r.Group(func(r chi.Router) {
			r.Use(handlers.AuthMiddleware(deps.jwtManager))

			r.Post("/checkout", h.checkout.Checkout)
			r.Post("/checkout/preview", h.checkout.Preview)

			r.Get("/user/orders", h.orders.GetOrders)
			r.Get("/user/orders/{orderID}", h.orders.GetOrder)

			r.Get("/user/credits", h.credits.GetBalance)
			r.Get("/user/credits/history", h.credits.GetHistory)
			r.Post("/user/credits/spend", h.credits.Spend)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.cart.Get)
				r.Delete("/", h.cart.Clear)
				r.Post("/items", h.cart.AddItem)
				r.Patch("/items/{productID}", h.cart.UpdateItem)
				r.Delete("/items/{productID}", h.cart.RemoveItem)
				r.Put("/promo", h.cart.SetPromo)
				r.Post("/refresh", h.cart.Refresh)
				r.Post("/checkout", h.cart.Checkout)
			})
		})
	})
}

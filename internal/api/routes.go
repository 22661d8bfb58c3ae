package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS - the unsubscribe link is opened from mail clients and browsers
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Get("/unsubscribe", h.Unsubscribe)

	r.Route("/email", func(r chi.Router) {
		r.Post("/send-designed-one", h.SendDesignedOne)
		r.Post("/send-designed-many", h.SendDesignedMany)
		r.Post("/send-flex-batch", h.SendFlexBatch)
	})

	return r
}

package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// NewRouter builds and returns the Chi router with all routes configured.
// The health endpoint is unauthenticated; everything else requires bearer
// auth. Rate limiting is applied globally: 60 requests per minute per IP.
func NewRouter(handlers *Handlers, token string, db dbPinger, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/api/v1/health", HealthHandlerFunc(db, redisClient, log))

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(token))

		r.Post("/api/v1/activities/score", handlers.ScoreActivity)
		r.Post("/api/v1/activities/suggestions", handlers.SuggestActivities)

		r.Post("/api/v1/itineraries", handlers.CreateItinerary)
		r.Get("/api/v1/itineraries/{id}", handlers.GetItinerary)
		r.Put("/api/v1/itineraries/{id}", handlers.UpdateItinerary)
		r.Delete("/api/v1/itineraries/{id}", handlers.DeleteItinerary)
		r.Post("/api/v1/itineraries/{id}/reorder", handlers.ReorderItinerary)
		r.Post("/api/v1/itineraries/{id}/days", handlers.AddDay)
		r.Delete("/api/v1/itineraries/{id}/days/{index}", handlers.DeleteDay)
		r.Post("/api/v1/itineraries/{id}/days/{index}/activities", handlers.AddActivity)
	})

	return r
}

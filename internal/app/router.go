package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"greencommute/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const healthTimeout = 2 * time.Second

func routes(h estimateHandler, corsOrigins []string, checks map[string]func(ctx context.Context) error) http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestLogger)
	mux.Use(chiMiddleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/health", health(checks))

	mux.Group(func(r chi.Router) {
		r.Use(middleware.JsonMiddleware)
		r.Handle("/car", http.HandlerFunc(h.Car))
		r.Handle("/carpool", http.HandlerFunc(h.CarPool))
		r.Handle("/cycle", http.HandlerFunc(h.Cycle))
		r.Handle("/transit", http.HandlerFunc(h.Transit))
		r.Handle("/walk", http.HandlerFunc(h.Walk))
	})

	return mux
}

// health reports every dependency check, 503 when one of them fails
func health(checks map[string]func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		report := map[string]string{"status": "ok"}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.Warn().Err(err).Str("dependency", name).Msg("health check failed")
				report[name] = err.Error()
				report["status"] = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(report); err != nil {
			log.Error().Err(err).Msg("couldn't write health report")
		}
	}
}

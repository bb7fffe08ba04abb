package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts the contact API. /metrics and /healthz stay public; the
// contact routes require a bearer token when jwtSecret is non-empty.
func NewRouter(handler *ContactHandler, jwtSecret string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(PrometheusMetricsMiddleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		if jwtSecret != "" {
			r.Use(JWTAuthMiddleware([]byte(jwtSecret), logger))
		} else {
			logger.Warn("JWT secret not configured, contact API is unauthenticated")
		}
		handler.RegisterRoutes(r)
	})
	return r
}

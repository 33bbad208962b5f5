package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jonwraymond/healthops/health"
)

// newRouter mounts the health endpoints and, when metrics is non-nil, the
// scrape endpoint.
func newRouter(rep health.KindReporter, metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.AllowAll().Handler)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", health.HealthHandler(rep))
		r.Get("/live", health.LivenessHandler(rep))
		r.Get("/ready", health.ReadinessHandler(rep))
		r.Get("/started", health.StartupHandler(rep))
	})

	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	return r
}

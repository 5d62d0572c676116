// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/playlytics/internal/config"
	"github.com/tomtom215/playlytics/internal/middleware"
)

// NewRouter builds the chi router with the full middleware stack and all
// routes. Read-only analytics service: every data endpoint is GET.
func NewRouter(h *Handler, cfg *config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health endpoints get permissive rate limiting so monitors can poll
	// frequently.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Metric endpoints: cached read-only aggregations.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Use(middleware.Prometheus)

		r.Get("/filters", h.Filters)

		r.Route("/metrics", func(r chi.Router) {
			r.Get("/overview", h.MetricsOverview)
			r.Get("/engagement", h.MetricsEngagement)
			r.Get("/retention", h.MetricsRetention)
			r.Get("/churn", h.MetricsChurn)
			r.Get("/monetization", h.MetricsMonetization)
			r.Get("/progression", h.MetricsProgression)
			r.Get("/performance", h.MetricsPerformance)
			r.Get("/dashboard", h.MetricsDashboard)
		})
	})

	// Prometheus scrape endpoint, outside the API rate limits.
	r.Handle("/metrics", promhttp.Handler())

	return r
}

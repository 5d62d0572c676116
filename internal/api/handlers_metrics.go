// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/playlytics/internal/database"
)

// Per-family metric endpoints. Each one validates, resolves the filter,
// and runs cache-first through the shared executor.

// MetricsOverview serves GET /api/v1/metrics/overview.
func (h *Handler) MetricsOverview(w http.ResponseWriter, r *http.Request) {
	h.executor.Execute(w, r, "MetricsOverview", func(ctx context.Context, f database.Filter) (interface{}, error) {
		return h.db.GetOverviewAnalytics(ctx, f)
	})
}

// MetricsEngagement serves GET /api/v1/metrics/engagement.
func (h *Handler) MetricsEngagement(w http.ResponseWriter, r *http.Request) {
	h.executor.Execute(w, r, "MetricsEngagement", func(ctx context.Context, f database.Filter) (interface{}, error) {
		return h.db.GetEngagementAnalytics(ctx, f)
	})
}

// MetricsRetention serves GET /api/v1/metrics/retention.
func (h *Handler) MetricsRetention(w http.ResponseWriter, r *http.Request) {
	h.executor.Execute(w, r, "MetricsRetention", func(ctx context.Context, f database.Filter) (interface{}, error) {
		return h.db.GetRetentionAnalytics(ctx, f)
	})
}

// MetricsChurn serves GET /api/v1/metrics/churn.
func (h *Handler) MetricsChurn(w http.ResponseWriter, r *http.Request) {
	h.executor.Execute(w, r, "MetricsChurn", func(ctx context.Context, f database.Filter) (interface{}, error) {
		return h.db.GetChurnAnalytics(ctx, f)
	})
}

// MetricsMonetization serves GET /api/v1/metrics/monetization.
func (h *Handler) MetricsMonetization(w http.ResponseWriter, r *http.Request) {
	h.executor.Execute(w, r, "MetricsMonetization", func(ctx context.Context, f database.Filter) (interface{}, error) {
		return h.db.GetMonetizationAnalytics(ctx, f)
	})
}

// MetricsProgression serves GET /api/v1/metrics/progression.
func (h *Handler) MetricsProgression(w http.ResponseWriter, r *http.Request) {
	h.executor.Execute(w, r, "MetricsProgression", func(ctx context.Context, f database.Filter) (interface{}, error) {
		return h.db.GetProgressionAnalytics(ctx, f)
	})
}

// MetricsPerformance serves GET /api/v1/metrics/performance.
func (h *Handler) MetricsPerformance(w http.ResponseWriter, r *http.Request) {
	h.executor.Execute(w, r, "MetricsPerformance", func(ctx context.Context, f database.Filter) (interface{}, error) {
		return h.db.GetPerformanceAnalytics(ctx, f)
	})
}

// MetricsDashboard serves GET /api/v1/metrics/dashboard, the combined
// document with per-section degradation.
func (h *Handler) MetricsDashboard(w http.ResponseWriter, r *http.Request) {
	h.executor.ExecuteDashboard(w, r)
}

// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

// Package metrics provides Prometheus instrumentation for the engine:
// DuckDB query performance, API endpoint latency and throughput, and
// analytics cache efficiency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB aggregate queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"metric_family", "period"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"metric_family", "period"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Analytics Cache Metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_cache_hits_total",
			Help: "Total number of analytics cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_cache_misses_total",
			Help: "Total number of analytics cache misses",
		},
	)

	// Degraded section counter: sub-metric computations that failed while
	// the rest of the response was still assembled.
	DegradedSections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metrics_degraded_sections_total",
			Help: "Total number of metric sections reported as degraded",
		},
		[]string{"metric_family"},
	)
)

// RecordAPIRequest records request count and duration for an endpoint.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the active request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records the duration of an aggregate query.
func RecordDBQuery(metricFamily, period string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(metricFamily, period).Observe(duration.Seconds())
}

// RecordDBQueryError records a failed aggregate query.
func RecordDBQueryError(metricFamily, period string) {
	DBQueryErrors.WithLabelValues(metricFamily, period).Inc()
}

// RecordDegradedSection records a metric section that failed while the rest
// of the response was assembled.
func RecordDegradedSection(metricFamily string) {
	DegradedSections.WithLabelValues(metricFamily).Inc()
}

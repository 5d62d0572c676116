// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/playlytics/internal/cache"
	"github.com/tomtom215/playlytics/internal/database"
	"github.com/tomtom215/playlytics/internal/models"
)

// AnalyticsQueryExecutor encapsulates the common pattern shared by every
// metrics endpoint. It implements a cache-first execution flow:
//
//  1. Validate the raw request and build the typed filter
//  2. Check cache for existing results
//  3. Execute the query on cache miss
//  4. Cache the result for subsequent requests
//  5. Respond with JSON including metadata (query time, cached status)
//
// Example usage:
//
//	executor := NewAnalyticsQueryExecutor(h)
//	executor.Execute(w, r, "MetricsRetention", func(ctx context.Context, f database.Filter) (interface{}, error) {
//	    return h.db.GetRetentionAnalytics(ctx, f)
//	})
type AnalyticsQueryExecutor struct {
	handler *Handler
}

// NewAnalyticsQueryExecutor creates a new analytics query executor instance.
func NewAnalyticsQueryExecutor(h *Handler) *AnalyticsQueryExecutor {
	return &AnalyticsQueryExecutor{handler: h}
}

// AnalyticsQueryFunc executes one metric computation for a validated filter.
// The result must be JSON-serializable as it is cached and returned inside
// an APIResponse wrapper.
type AnalyticsQueryFunc func(ctx context.Context, f database.Filter) (interface{}, error)

// Execute runs a metrics query with automatic validation and caching.
//
// Validation failures (missing game_id, malformed or inverted dates) reject
// the whole request with 400 before any aggregation runs. Aggregation
// failures on single-family endpoints surface as 500; the combined
// dashboard endpoint degrades per-section instead and never takes this
// path.
func (e *AnalyticsQueryExecutor) Execute(
	w http.ResponseWriter,
	r *http.Request,
	cacheKeyPrefix string,
	queryFunc AnalyticsQueryFunc,
) {
	filter, ok := e.prepare(w, r)
	if !ok {
		return
	}

	start := time.Now()
	cacheKey := cache.GenerateKey(cacheKeyPrefix, filter)

	if e.handler.cache != nil {
		if cached, found := e.handler.cache.Get(cacheKey); found {
			respondCached(w, cached)
			return
		}
	}

	data, err := queryFunc(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase,
			fmt.Sprintf("Failed to execute query: %s", cacheKeyPrefix), err)
		return
	}

	if e.handler.cache != nil {
		e.handler.cache.Set(cacheKey, data)
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// ExecuteDashboard runs the combined document. The dashboard never fails
// once validation passed; failed sections are degraded in place and the
// envelope carries partial=true.
func (e *AnalyticsQueryExecutor) ExecuteDashboard(w http.ResponseWriter, r *http.Request) {
	filter, ok := e.prepare(w, r)
	if !ok {
		return
	}

	start := time.Now()
	cacheKey := cache.GenerateKey("MetricsDashboard", filter)

	if e.handler.cache != nil {
		if cached, found := e.handler.cache.Get(cacheKey); found {
			respondCached(w, cached)
			return
		}
	}

	doc := e.handler.db.GetDashboardAnalytics(r.Context(), filter)

	// Partial documents stay uncached so degraded sections retry on the
	// next request.
	if e.handler.cache != nil && !doc.Partial {
		e.handler.cache.Set(cacheKey, doc)
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   doc,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Partial:     doc.Partial,
		},
	})
}

// prepare validates the raw request and builds the typed filter, writing
// the error response itself on failure.
func (e *AnalyticsQueryExecutor) prepare(w http.ResponseWriter, r *http.Request) (database.Filter, bool) {
	if e.handler.db == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeService, "Database not available", nil)
		return database.Filter{}, false
	}

	q := r.URL.Query()
	req := MetricsRequest{
		GameID:    q.Get("game_id"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return database.Filter{}, false
	}

	filter, err := buildFilter(r, e.handler.defaultRangeDays, time.Now())
	if err != nil {
		if isInvalidRange(err) {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidRange, err.Error(), nil)
			return database.Filter{}, false
		}
		respondError(w, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return database.Filter{}, false
	}

	return filter, true
}

// respondCached writes a cache hit. Cached dashboard documents recover
// their partial flag from the stored value.
func respondCached(w http.ResponseWriter, cached interface{}) {
	partial := false
	if doc, ok := cached.(*models.DashboardAnalytics); ok {
		partial = doc.Partial
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   cached,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: 0,
			Cached:      true,
			Partial:     partial,
		},
	})
}

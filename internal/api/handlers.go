// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/playlytics/internal/cache"
	"github.com/tomtom215/playlytics/internal/config"
	"github.com/tomtom215/playlytics/internal/database"
	"github.com/tomtom215/playlytics/internal/models"
)

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	db               *database.DB
	cache            *cache.Cache
	executor         *AnalyticsQueryExecutor
	defaultRangeDays int
}

// NewHandler creates a handler with its analytics executor wired up.
func NewHandler(db *database.DB, c *cache.Cache, cfg *config.Config) *Handler {
	h := &Handler{
		db:               db,
		cache:            c,
		defaultRangeDays: cfg.API.DefaultRangeDays,
	}
	h.executor = NewAnalyticsQueryExecutor(h)
	return h
}

// HealthLive reports process liveness. Always 200 once the server accepts
// connections.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"status": "alive"},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady reports readiness: the store must answer a ping within two
// seconds.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeService, "Database not available", nil)
		return
	}
	if err := h.db.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeService, "Database not reachable", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]string{"status": "ready"},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// Filters lists the distinct dimension values for a game so dashboards can
// populate their filter dropdowns.
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeService, "Database not available", nil)
		return
	}

	gameID := r.URL.Query().Get("game_id")
	req := MetricsRequest{GameID: gameID}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()
	cacheKey := cache.GenerateKey("FilterValues", gameID)
	if h.cache != nil {
		if cached, found := h.cache.Get(cacheKey); found {
			respondCached(w, cached)
			return
		}
	}

	values, err := h.db.GetFilterValues(r.Context(), gameID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrCodeDatabase, "Failed to load filter values", err)
		return
	}

	if h.cache != nil {
		h.cache.Set(cacheKey, values)
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   values,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

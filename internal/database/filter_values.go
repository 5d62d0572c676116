// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/playlytics/internal/models"
)

// GetFilterValues lists the distinct dimension values present for a game.
// Dashboards use this to populate filter dropdowns.
func (db *DB) GetFilterValues(ctx context.Context, gameID string) (*models.FilterValues, error) {
	start := time.Now()
	values, err := db.filterValuesInner(ctx, gameID)
	recordQuery("filter_values", "current", start, err)
	return values, err
}

func (db *DB) filterValuesInner(ctx context.Context, gameID string) (*models.FilterValues, error) {
	values := &models.FilterValues{
		Countries: []string{},
		Platforms: []string{},
		Versions:  []string{},
		Devices:   []string{},
	}

	deviceQuery := `
		SELECT DISTINCT dv.country, dv.platform, dv.device_model
		FROM devices dv
		JOIN players p ON p.id = dv.player_id
		WHERE p.game_id = ?`

	countries := map[string]bool{}
	platforms := map[string]bool{}
	deviceModels := map[string]bool{}
	err := db.queryAndScan(ctx, deviceQuery, []interface{}{gameID}, func(rows *sql.Rows) error {
		var country, platform, model sql.NullString
		if err := rows.Scan(&country, &platform, &model); err != nil {
			return err
		}
		if country.Valid && country.String != "" {
			countries[country.String] = true
		}
		if platform.Valid && platform.String != "" {
			platforms[platform.String] = true
		}
		if model.Valid && model.String != "" {
			deviceModels[model.String] = true
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("device dimensions: %w", err)
	}

	versionQuery := `
		SELECT DISTINCT s.game_version
		FROM sessions s
		WHERE s.game_id = ? AND s.game_version IS NOT NULL AND s.game_version != ''
		ORDER BY s.game_version`

	err = db.queryAndScan(ctx, versionQuery, []interface{}{gameID}, func(rows *sql.Rows) error {
		var version string
		if err := rows.Scan(&version); err != nil {
			return err
		}
		values.Versions = append(values.Versions, version)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("versions: %w", err)
	}

	values.Countries = sortedKeys(countries)
	values.Platforms = sortedKeys(platforms)
	values.Devices = sortedKeys(deviceModels)
	return values, nil
}

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

// GetEngagementAnalytics computes session engagement totals for the
// requested period, compared against the preceding period, with a per-day
// breakdown of the current period.
func (db *DB) GetEngagementAnalytics(ctx context.Context, f Filter) (*models.EngagementAnalytics, error) {
	current := f.Range
	previous := current.Previous()

	cur, err := db.aggregateWindow(ctx, f, current, "current")
	if err != nil {
		return nil, fmt.Errorf("current period: %w", err)
	}
	prev, err := db.aggregateWindow(ctx, f, previous, "previous")
	if err != nil {
		return nil, fmt.Errorf("previous period: %w", err)
	}

	daily, err := db.dailyActivity(ctx, f, current)
	if err != nil {
		return nil, fmt.Errorf("daily breakdown: %w", err)
	}

	return &models.EngagementAnalytics{
		Period:            current.Window(),
		Previous:          previous.Window(),
		ActivePlayers:     compare(float64(cur.ActivePlayers), float64(prev.ActivePlayers)),
		Sessions:          compare(float64(cur.Sessions), float64(prev.Sessions)),
		NewPlayers:        compare(float64(cur.NewPlayers), float64(prev.NewPlayers)),
		AvgSessionSeconds: compare(cur.AvgSessionSeconds, prev.AvgSessionSeconds),
		SessionsPerPlayer: compare(
			ratio(float64(cur.Sessions), float64(cur.ActivePlayers)),
			ratio(float64(prev.Sessions), float64(prev.ActivePlayers)),
		),
		DailyActive: daily,
	}, nil
}

// dailyActivity breaks session activity down by UTC calendar day within the
// range. Days with no activity are absent from the result.
func (db *DB) dailyActivity(ctx context.Context, f Filter, rng TimeRange) ([]models.DailyActivity, error) {
	start := time.Now()

	where, args := f.WhereSessions(rng).Build()
	query := fmt.Sprintf(`
		SELECT
			CAST(s.started_at AS DATE) AS activity_day,
			COUNT(DISTINCT s.player_id),
			COUNT(*)
		FROM sessions s
		WHERE %s
		GROUP BY activity_day
		ORDER BY activity_day`, where)

	daily := make([]models.DailyActivity, 0, rng.Days())
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var d time.Time
		var entry models.DailyActivity
		if err := rows.Scan(&d, &entry.Players, &entry.Sessions); err != nil {
			return err
		}
		entry.Date = d.UTC().Format(time.DateOnly)
		daily = append(daily, entry)
		return nil
	})
	recordQuery("engagement_daily", "current", start, err)
	if err != nil {
		return nil, err
	}
	return daily, nil
}

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

const topCrashLimit = 10

// stabilityTotals holds the crash and error counts for one period.
type stabilityTotals struct {
	Crashes       int64
	Errors        int64
	CrashPlayers  int64
	Sessions      int64
	ActivePlayers int64
}

// GetPerformanceAnalytics computes client stability for the requested
// period compared against the preceding period. Crashes and errors are
// telemetry events with event_type "crash" and "error".
func (db *DB) GetPerformanceAnalytics(ctx context.Context, f Filter) (*models.PerformanceAnalytics, error) {
	current := f.Range
	previous := current.Previous()

	cur, err := db.stabilityTotals(ctx, f, current, "current")
	if err != nil {
		return nil, fmt.Errorf("current period: %w", err)
	}
	prev, err := db.stabilityTotals(ctx, f, previous, "previous")
	if err != nil {
		return nil, fmt.Errorf("previous period: %w", err)
	}

	topVersions, err := db.topCrashVersions(ctx, f, current)
	if err != nil {
		return nil, fmt.Errorf("top crash versions: %w", err)
	}
	topDevices, err := db.topCrashDevices(ctx, f, current)
	if err != nil {
		return nil, fmt.Errorf("top crash devices: %w", err)
	}

	return &models.PerformanceAnalytics{
		Period:   current.Window(),
		Previous: previous.Window(),
		Crashes:  compare(float64(cur.Crashes), float64(prev.Crashes)),
		Errors:   compare(float64(cur.Errors), float64(prev.Errors)),
		CrashRatePerSession: compare(
			roundPct(ratio(float64(cur.Crashes), float64(cur.Sessions))*100),
			roundPct(ratio(float64(prev.Crashes), float64(prev.Sessions))*100),
		),
		CrashFreePlayers: compare(
			crashFreePct(cur),
			crashFreePct(prev),
		),
		TopCrashVersions: topVersions,
		TopCrashDevices:  topDevices,
	}, nil
}

// crashFreePct is the percentage of active players with no crash event.
// No active players yields 0, not 100: there is nobody to be crash-free.
func crashFreePct(t stabilityTotals) float64 {
	if t.ActivePlayers == 0 {
		return 0
	}
	return roundPct(float64(t.ActivePlayers-t.CrashPlayers) / float64(t.ActivePlayers) * 100)
}

func (db *DB) stabilityTotals(ctx context.Context, f Filter, rng TimeRange, period string) (stabilityTotals, error) {
	start := time.Now()
	totals, err := db.stabilityTotalsInner(ctx, f, rng)
	recordQuery("performance", period, start, err)
	return totals, err
}

func (db *DB) stabilityTotalsInner(ctx context.Context, f Filter, rng TimeRange) (stabilityTotals, error) {
	var t stabilityTotals

	wb := f.WhereEvents(rng)
	wb.AddClause("e.event_type IN ('crash', 'error')")
	where, args := wb.Build()

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) FILTER (WHERE e.event_type = 'crash'),
			COUNT(*) FILTER (WHERE e.event_type = 'error'),
			COUNT(DISTINCT e.player_id) FILTER (WHERE e.event_type = 'crash')
		FROM events e
		WHERE %s`, where)

	if err := db.queryRowWithContext(ctx, query, args, &t.Crashes, &t.Errors, &t.CrashPlayers); err != nil {
		return t, fmt.Errorf("stability events: %w", err)
	}

	sessWhere, sessArgs := f.WhereSessions(rng).Build()
	sessQuery := fmt.Sprintf(`
		SELECT COUNT(*), COUNT(DISTINCT s.player_id)
		FROM sessions s
		WHERE %s`, sessWhere)

	if err := db.queryRowWithContext(ctx, sessQuery, sessArgs, &t.Sessions, &t.ActivePlayers); err != nil {
		return t, fmt.Errorf("stability sessions: %w", err)
	}

	return t, nil
}

// topCrashVersions attributes crashes to the owning session's game version,
// highest crash count first. Crashes with no session resolve to "unknown".
func (db *DB) topCrashVersions(ctx context.Context, f Filter, rng TimeRange) ([]models.VersionCrashCount, error) {
	start := time.Now()

	wb := f.WhereEvents(rng)
	wb.AddEquals("e.event_type", "crash")
	where, args := wb.Build()

	query := fmt.Sprintf(`
		SELECT
			COALESCE(sv.game_version, 'unknown') AS version,
			COUNT(*),
			COUNT(DISTINCT e.player_id)
		FROM events e
		LEFT JOIN sessions sv ON sv.id = e.session_id
		WHERE %s
		GROUP BY version
		ORDER BY COUNT(*) DESC, version
		LIMIT %d`, where, topCrashLimit)

	top := []models.VersionCrashCount{}
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var entry models.VersionCrashCount
		if err := rows.Scan(&entry.Version, &entry.Crashes, &entry.Players); err != nil {
			return err
		}
		top = append(top, entry)
		return nil
	})
	recordQuery("performance_versions", "current", start, err)
	if err != nil {
		return nil, err
	}
	return top, nil
}

// topCrashDevices attributes crashes to the player's device model, highest
// crash count first. Players with no device row resolve to "unknown".
func (db *DB) topCrashDevices(ctx context.Context, f Filter, rng TimeRange) ([]models.DeviceCrashCount, error) {
	start := time.Now()

	wb := f.WhereEvents(rng)
	wb.AddEquals("e.event_type", "crash")
	where, args := wb.Build()

	query := fmt.Sprintf(`
		SELECT
			COALESCE(dv.device_model, 'unknown') AS model,
			COUNT(*),
			COUNT(DISTINCT e.player_id)
		FROM events e
		LEFT JOIN devices dv ON dv.player_id = e.player_id
		WHERE %s
		GROUP BY model
		ORDER BY COUNT(*) DESC, model
		LIMIT %d`, where, topCrashLimit)

	top := []models.DeviceCrashCount{}
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var entry models.DeviceCrashCount
		if err := rows.Scan(&entry.DeviceModel, &entry.Crashes, &entry.Players); err != nil {
			return err
		}
		top = append(top, entry)
		return nil
	})
	recordQuery("performance_devices", "current", start, err)
	if err != nil {
		return nil, err
	}
	return top, nil
}

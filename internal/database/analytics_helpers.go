// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/playlytics/internal/metrics"
	"github.com/tomtom215/playlytics/internal/models"
)

// analytics_helpers.go - Shared helper functions for analytics queries.

// queryRowWithContext executes a query expecting a single row and scans into
// dest. A missing row is treated as all-zero aggregation output, not an
// error.
func (db *DB) queryRowWithContext(ctx context.Context, query string, args []interface{}, dest ...interface{}) error {
	row := db.conn.QueryRowContext(ctx, query, args...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("scan row: %w", err)
	}
	return nil
}

// queryAndScan executes a query and scans all rows using the provided
// scanner function. Reduces repetitive query-scan-collect patterns.
func (db *DB) queryAndScan(ctx context.Context, query string, args []interface{}, scanner func(*sql.Rows) error) error {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer func() { closeWithLog(rows, "rows") }()

	for rows.Next() {
		if err := scanner(rows); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration: %w", err)
	}

	return nil
}

// recordQuery reports query timing and failures to Prometheus.
// Call with the start time captured before the query ran.
func recordQuery(metricFamily, period string, start time.Time, err error) {
	if err != nil {
		metrics.RecordDBQueryError(metricFamily, period)
		return
	}
	metrics.RecordDBQuery(metricFamily, period, time.Since(start))
}

// percentChange computes the relative change between two period values.
//
// Conventions:
//   - previous == 0 and current == 0: 0 (no change)
//   - previous == 0 and current > 0: +100 (saturated, avoids infinity)
//   - otherwise: (current - previous) / |previous| * 100
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / math.Abs(previous) * 100
}

// direction classifies a delta as "up", "down", or "stable".
// Deltas under half a percent in magnitude count as stable.
func direction(deltaPct float64) string {
	switch {
	case deltaPct >= 0.5:
		return "up"
	case deltaPct <= -0.5:
		return "down"
	default:
		return "stable"
	}
}

// compare builds the Comparison for a current/previous value pair.
func compare(current, previous float64) models.Comparison {
	delta := percentChange(current, previous)
	return models.Comparison{
		Current:   current,
		Previous:  previous,
		DeltaPct:  math.Round(delta*100) / 100,
		Direction: direction(delta),
	}
}

// ratio divides num by den, returning 0 for a zero denominator. Every
// per-actor and per-session rate in the engine goes through this so empty
// windows yield zeros, never NaN.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// sortedKeys returns a set's keys in sorted order.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// roundPct rounds a rate to a whole percent and clamps it to [0, 100].
func roundPct(v float64) float64 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

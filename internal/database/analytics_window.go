// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"context"
	"fmt"
	"time"
)

// windowAggregate holds the flat totals for one filter over one period.
// Zero rows produce a zero-valued aggregate, never nulls.
type windowAggregate struct {
	ActivePlayers     int64
	Sessions          int64
	NewPlayers        int64
	PlaytimeSeconds   int64
	AvgSessionSeconds float64
	RevenueCents      int64
	Transactions      int64
	PayingPlayers     int64
}

// aggregateWindow computes the session and transaction totals for the
// filter over the given range. The average session duration covers closed
// sessions only; open sessions contribute to counts but not duration.
func (db *DB) aggregateWindow(ctx context.Context, f Filter, rng TimeRange, period string) (windowAggregate, error) {
	start := time.Now()
	agg, err := db.aggregateWindowInner(ctx, f, rng)
	recordQuery("window", period, start, err)
	return agg, err
}

func (db *DB) aggregateWindowInner(ctx context.Context, f Filter, rng TimeRange) (windowAggregate, error) {
	var agg windowAggregate

	sessWhere, sessArgs := f.WhereSessions(rng).Build()
	sessQuery := fmt.Sprintf(`
		SELECT
			COUNT(DISTINCT s.player_id),
			COUNT(*),
			COALESCE(SUM(s.duration_seconds) FILTER (WHERE s.ended_at IS NOT NULL), 0),
			COALESCE(AVG(s.duration_seconds) FILTER (WHERE s.ended_at IS NOT NULL), 0)
		FROM sessions s
		WHERE %s`, sessWhere)

	if err := db.queryRowWithContext(ctx, sessQuery, sessArgs,
		&agg.ActivePlayers, &agg.Sessions, &agg.PlaytimeSeconds, &agg.AvgSessionSeconds); err != nil {
		return agg, fmt.Errorf("session aggregate: %w", err)
	}

	newPlayers, err := db.countNewPlayers(ctx, f, rng)
	if err != nil {
		return agg, err
	}
	agg.NewPlayers = newPlayers

	txnWhere, txnArgs := f.WhereTransactions(rng).Build()
	txnQuery := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(t.amount_cents), 0),
			COUNT(*),
			COUNT(DISTINCT t.player_id)
		FROM transactions t
		WHERE %s`, txnWhere)

	if err := db.queryRowWithContext(ctx, txnQuery, txnArgs,
		&agg.RevenueCents, &agg.Transactions, &agg.PayingPlayers); err != nil {
		return agg, fmt.Errorf("transaction aggregate: %w", err)
	}

	return agg, nil
}

// countNewPlayers counts players whose earliest session within the filtered
// view falls inside the range. The earliest session is resolved over all
// history, then constrained to the range, so a returning player never
// counts as new.
func (db *DB) countNewPlayers(ctx context.Context, f Filter, rng TimeRange) (int64, error) {
	where, args := f.WhereSessionsNoRange().Build()
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM (
			SELECT s.player_id
			FROM sessions s
			WHERE %s
			GROUP BY s.player_id
			HAVING MIN(s.started_at) >= ? AND MIN(s.started_at) < ?
		)`, where)
	args = append(args, rng.Start, rng.End)

	var count int64
	if err := db.queryRowWithContext(ctx, query, args, &count); err != nil {
		return 0, fmt.Errorf("new players: %w", err)
	}
	return count, nil
}

// countActivePlayers counts distinct players with a session in the range.
// Used for the rolling activity windows.
func (db *DB) countActivePlayers(ctx context.Context, f Filter, rng TimeRange) (int64, error) {
	where, args := f.WhereSessions(rng).Build()
	query := fmt.Sprintf(`
		SELECT COUNT(DISTINCT s.player_id)
		FROM sessions s
		WHERE %s`, where)

	var count int64
	if err := db.queryRowWithContext(ctx, query, args, &count); err != nil {
		return 0, fmt.Errorf("active players: %w", err)
	}
	return count, nil
}

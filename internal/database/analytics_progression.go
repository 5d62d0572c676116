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

const topEventsLimit = 10

// GetProgressionAnalytics computes progression event activity for the
// requested period compared against the preceding period, with top events
// and a start/complete funnel for the current period.
func (db *DB) GetProgressionAnalytics(ctx context.Context, f Filter) (*models.ProgressionAnalytics, error) {
	current := f.Range
	previous := current.Previous()

	curEvents, curPlayers, err := db.progressionTotals(ctx, f, current, "current")
	if err != nil {
		return nil, fmt.Errorf("current period: %w", err)
	}
	prevEvents, prevPlayers, err := db.progressionTotals(ctx, f, previous, "previous")
	if err != nil {
		return nil, fmt.Errorf("previous period: %w", err)
	}

	topEvents, err := db.topProgressionEvents(ctx, f, current)
	if err != nil {
		return nil, fmt.Errorf("top events: %w", err)
	}

	funnel, err := db.progressionFunnel(ctx, f, current)
	if err != nil {
		return nil, fmt.Errorf("funnel: %w", err)
	}

	return &models.ProgressionAnalytics{
		Period:    current.Window(),
		Previous:  previous.Window(),
		Events:    compare(float64(curEvents), float64(prevEvents)),
		Players:   compare(float64(curPlayers), float64(prevPlayers)),
		TopEvents: topEvents,
		Funnel:    funnel,
	}, nil
}

func (db *DB) progressionTotals(ctx context.Context, f Filter, rng TimeRange, period string) (int64, int64, error) {
	start := time.Now()

	wb := f.WhereEvents(rng)
	wb.AddEquals("e.event_type", "progression")
	where, args := wb.Build()

	query := fmt.Sprintf(`
		SELECT COUNT(*), COUNT(DISTINCT e.player_id)
		FROM events e
		WHERE %s`, where)

	var events, players int64
	err := db.queryRowWithContext(ctx, query, args, &events, &players)
	recordQuery("progression", period, start, err)
	if err != nil {
		return 0, 0, err
	}
	return events, players, nil
}

// topProgressionEvents lists the most frequent progression events in the
// range, highest count first.
func (db *DB) topProgressionEvents(ctx context.Context, f Filter, rng TimeRange) ([]models.EventCount, error) {
	start := time.Now()

	wb := f.WhereEvents(rng)
	wb.AddEquals("e.event_type", "progression")
	where, args := wb.Build()

	query := fmt.Sprintf(`
		SELECT e.name, COUNT(*), COUNT(DISTINCT e.player_id)
		FROM events e
		WHERE %s
		GROUP BY e.name
		ORDER BY COUNT(*) DESC, e.name
		LIMIT %d`, where, topEventsLimit)

	top := []models.EventCount{}
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var entry models.EventCount
		if err := rows.Scan(&entry.Name, &entry.Count, &entry.Players); err != nil {
			return err
		}
		top = append(top, entry)
		return nil
	})
	recordQuery("progression_top", "current", start, err)
	if err != nil {
		return nil, err
	}
	return top, nil
}

// progressionFunnel pairs "<stem>_start" with "<stem>_complete" progression
// events by shared name stem and measures per-stem completion over distinct
// players.
func (db *DB) progressionFunnel(ctx context.Context, f Filter, rng TimeRange) ([]models.FunnelStep, error) {
	start := time.Now()

	wb := f.WhereEvents(rng)
	wb.AddEquals("e.event_type", "progression")
	wb.AddClause("(e.name LIKE '%_start' OR e.name LIKE '%_complete')")
	where, args := wb.Build()

	query := fmt.Sprintf(`
		SELECT
			regexp_replace(e.name, '_(start|complete)$', '') AS stem,
			COUNT(DISTINCT e.player_id) FILTER (WHERE e.name LIKE '%%_start') AS started,
			COUNT(DISTINCT e.player_id) FILTER (WHERE e.name LIKE '%%_complete') AS completed
		FROM events e
		WHERE %s
		GROUP BY stem
		ORDER BY started DESC, stem
		LIMIT 20`, where)

	funnel := []models.FunnelStep{}
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var step models.FunnelStep
		if err := rows.Scan(&step.Name, &step.Started, &step.Completed); err != nil {
			return err
		}
		step.CompletionRate = roundPct(ratio(float64(step.Completed), float64(step.Started)) * 100)
		funnel = append(funnel, step)
		return nil
	})
	recordQuery("progression_funnel", "current", start, err)
	if err != nil {
		return nil, err
	}
	return funnel, nil
}

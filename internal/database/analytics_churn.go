// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/playlytics/internal/models"
)

// GetChurnAnalytics computes, for each activity day in the requested range,
// the fraction of that day's active players with no further activity in the
// grace window (X, X + grace days]. The activity scan extends grace days
// past the range end (capped at now) so that follow-up activity is visible.
// The series runs again over the preceding period of equal length to pair
// the overall rate with its prior value.
func (db *DB) GetChurnAnalytics(ctx context.Context, f Filter) (*models.ChurnAnalytics, error) {
	grace := db.engine.ChurnGraceDays
	now := time.Now().UTC()

	start := time.Now()
	activity, err := db.loadActivityDays(ctx, f, grace, now)
	recordQuery("churn", "current", start, err)
	if err != nil {
		return nil, err
	}

	prev := f
	prev.Range = f.Range.Previous()
	prevStart := time.Now()
	prevActivity, err := db.loadActivityDays(ctx, prev, grace, now)
	recordQuery("churn", "previous", prevStart, err)
	if err != nil {
		return nil, fmt.Errorf("previous period: %w", err)
	}

	doc := buildChurn(activity, f.Range, grace, now)
	prevDoc := buildChurn(prevActivity, prev.Range, grace, now)
	doc.Previous = prev.Range.Window()
	doc.OverallComparison = compare(doc.OverallRate, prevDoc.OverallRate)
	return doc, nil
}

// loadActivityDays returns each player's distinct activity days, as day
// indexes relative to the range start, over [start, min(now+1d, end+grace)).
func (db *DB) loadActivityDays(ctx context.Context, f Filter, grace int, now time.Time) (map[string][]int, error) {
	scanEnd := f.Range.End.Add(time.Duration(grace) * day)
	if limit := now.Truncate(day).Add(day); scanEnd.After(limit) {
		scanEnd = limit
	}
	scan := TimeRange{Start: f.Range.Start, End: scanEnd}

	where, args := f.WhereSessions(scan).Build()
	query := fmt.Sprintf(`
		SELECT DISTINCT s.player_id, CAST(s.started_at AS DATE) AS activity_day
		FROM sessions s
		WHERE %s
		ORDER BY s.player_id, activity_day`, where)

	rangeStart := f.Range.Start.Truncate(day)
	activity := make(map[string][]int)
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var playerID string
		var d time.Time
		if err := rows.Scan(&playerID, &d); err != nil {
			return err
		}
		idx := int(d.UTC().Truncate(day).Sub(rangeStart) / day)
		activity[playerID] = append(activity[playerID], idx)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("activity days: %w", err)
	}
	return activity, nil
}

// buildChurn folds per-player activity day indexes into the per-day churn
// series. Pure function of its inputs; now determines which days are still
// provisional.
func buildChurn(activity map[string][]int, rng TimeRange, grace int, now time.Time) *models.ChurnAnalytics {
	rangeStart := rng.Start.Truncate(day)
	rangeDays := rng.Days()

	// Only days that have started can carry activity.
	elapsedDays := int(now.Truncate(day).Add(day).Sub(rangeStart) / day)
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	observable := rangeDays
	if elapsedDays < observable {
		observable = elapsedDays
	}

	active := make([]int64, observable)
	churned := make([]int64, observable)

	for _, days := range activity {
		sort.Ints(days)
		for i, d := range days {
			if d < 0 || d >= observable {
				continue
			}
			active[d]++

			// Churned if no activity day falls in (d, d+grace].
			returned := false
			for j := i + 1; j < len(days); j++ {
				if days[j] <= d {
					continue
				}
				if days[j] <= d+grace {
					returned = true
				}
				break
			}
			if !returned {
				churned[d]++
			}
		}
	}

	doc := &models.ChurnAnalytics{
		Period:    rng.Window(),
		GraceDays: grace,
		Days:      make([]models.ChurnPoint, 0, observable),
	}

	var finalSum float64
	var finalCount int
	for d := 0; d < observable; d++ {
		date := rangeStart.Add(time.Duration(d) * day)
		point := models.ChurnPoint{
			Date:          date.Format(time.DateOnly),
			ActivePlayers: active[d],
			Churned:       churned[d],
			Rate:          math.Round(ratio(float64(churned[d]), float64(active[d]))*10000) / 100,
		}

		// The grace window (X, X+grace] is final once day X+grace has
		// fully elapsed.
		graceEnd := date.Add(time.Duration(grace+1) * day)
		if now.Before(graceEnd) {
			point.Provisional = true
			doc.Provisional = true
		} else if active[d] > 0 {
			finalSum += point.Rate
			finalCount++
		}

		doc.Days = append(doc.Days, point)
	}

	if finalCount > 0 {
		doc.OverallRate = math.Round(finalSum/float64(finalCount)*100) / 100
	}
	return doc
}

// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/playlytics/internal/models"
)

// Retention definition labels carried in the payload so dashboards never
// mix the two windowing rules up.
const (
	retentionDefRolling  = "rolling_hours"
	retentionDefCalendar = "calendar_day"
)

// cohortMember is one cohort player's activity, folded into day-offset
// bitmasks. Bit d of rolling is set when the player was active in
// [firstAt + d*24h, firstAt + (d+1)*24h); bit d of calendar when active on
// the UTC calendar day d days after the first-session day. The uint64 width
// is why the horizon is capped at 64.
type cohortMember struct {
	firstAt  time.Time
	rolling  uint64
	calendar uint64
}

// GetRetentionAnalytics computes cohort retention for players whose
// earliest session falls inside the requested range. One grouped query
// returns every cohort member's activity timestamps within the horizon;
// all set-membership math happens in-process on bitmasks. A second cohort
// is drawn from the preceding window of equal length to pair the summary
// rates with their prior values.
func (db *DB) GetRetentionAnalytics(ctx context.Context, f Filter) (*models.RetentionAnalytics, error) {
	start := time.Now()
	members, err := db.loadCohortActivity(ctx, f)
	recordQuery("retention", "current", start, err)
	if err != nil {
		return nil, err
	}

	prev := f
	prev.Range = f.Range.Previous()
	prevStart := time.Now()
	prevMembers, err := db.loadCohortActivity(ctx, prev)
	recordQuery("retention", "previous", prevStart, err)
	if err != nil {
		return nil, fmt.Errorf("previous period: %w", err)
	}

	now := time.Now()
	horizon := db.engine.RetentionHorizonDays
	doc := buildRetention(members, f.Range, horizon, now)
	prevDoc := buildRetention(prevMembers, prev.Range, horizon, now)
	doc.PreviousWindow = prev.Range.Window()
	doc.Comparison = retentionComparison(doc, prevDoc)
	return doc, nil
}

// retentionComparison pairs the headline values of two cohort windows.
func retentionComparison(cur, prev *models.RetentionAnalytics) models.RetentionComparison {
	return models.RetentionComparison{
		CohortSize: compare(float64(cur.CohortSize), float64(prev.CohortSize)),
		Day1:       compare(cur.Summary.Day1.Rate, prev.Summary.Day1.Rate),
		Day7:       compare(cur.Summary.Day7.Rate, prev.Summary.Day7.Rate),
		Day30:      compare(cur.Summary.Day30.Rate, prev.Summary.Day30.Rate),
	}
}

// loadCohortActivity runs the grouped cohort query. The cohort is resolved
// from each player's earliest session over all history within the filtered
// view; activity is every session start within horizon+1 days of it.
func (db *DB) loadCohortActivity(ctx context.Context, f Filter) (map[string]*cohortMember, error) {
	horizon := db.engine.RetentionHorizonDays

	cohortWhere, cohortArgs := f.WhereSessionsNoRange().Build()

	activity := "a.started_at >= c.first_at AND a.started_at < c.first_at + INTERVAL %d DAY"
	activityClause := fmt.Sprintf(activity, horizon+1)

	query := fmt.Sprintf(`
		WITH cohort AS (
			SELECT s.player_id, MIN(s.started_at) AS first_at
			FROM sessions s
			WHERE %s
			GROUP BY s.player_id
			HAVING MIN(s.started_at) >= ? AND MIN(s.started_at) < ?
		)
		SELECT c.player_id, c.first_at, a.started_at
		FROM cohort c
		JOIN sessions a ON a.player_id = c.player_id AND a.game_id = ?
		WHERE %s`, cohortWhere, activityClause)

	args := append(cohortArgs, f.Range.Start, f.Range.End, f.GameID)

	if len(f.Versions) > 0 {
		placeholders := ""
		for i, v := range f.Versions {
			if i > 0 {
				placeholders += ", "
			}
			placeholders += "?"
			args = append(args, v)
		}
		query += fmt.Sprintf(" AND a.game_version IN (%s)", placeholders)
	}

	members := make(map[string]*cohortMember)
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var playerID string
		var firstAt, activeAt time.Time
		if err := rows.Scan(&playerID, &firstAt, &activeAt); err != nil {
			return err
		}

		m, ok := members[playerID]
		if !ok {
			m = &cohortMember{firstAt: firstAt.UTC()}
			members[playerID] = m
		}
		m.mark(activeAt.UTC(), horizon)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cohort activity: %w", err)
	}
	return members, nil
}

// mark sets the rolling and calendar offset bits for one activity instant.
// Offsets outside [0, horizon] are dropped.
func (m *cohortMember) mark(activeAt time.Time, horizon int) {
	if d := int(activeAt.Sub(m.firstAt) / day); d >= 0 && d <= horizon {
		m.rolling |= 1 << uint(d)
	}

	firstDay := m.firstAt.Truncate(day)
	activeDay := activeAt.Truncate(day)
	if d := int(activeDay.Sub(firstDay) / day); d >= 0 && d <= horizon {
		m.calendar |= 1 << uint(d)
	}
}

// buildRetention assembles the retention document from loaded cohort
// activity. Pure function of its inputs; now determines measurability.
func buildRetention(members map[string]*cohortMember, cohortWindow TimeRange, horizon int, now time.Time) *models.RetentionAnalytics {
	now = now.UTC()
	cohortSize := int64(len(members))

	all := make([]*cohortMember, 0, len(members))
	for _, m := range members {
		all = append(all, m)
	}

	curve := make([]models.RetentionPoint, 0, horizon+1)
	for d := 0; d <= horizon; d++ {
		curve = append(curve, retentionPointAt(all, d, now, rollingMeasurable, rollingBit))
	}

	summary := models.RetentionSummary{
		Day1:  retentionPointAt(all, clampOffset(1, horizon), now, calendarMeasurable, calendarBit),
		Day7:  retentionPointAt(all, clampOffset(7, horizon), now, calendarMeasurable, calendarBit),
		Day30: retentionPointAt(all, clampOffset(30, horizon), now, calendarMeasurable, calendarBit),
	}
	// Report the conventional offsets even when the horizon clamps them.
	summary.Day1.DayOffset = 1
	summary.Day7.DayOffset = 7
	summary.Day30.DayOffset = 30
	if horizon < 7 {
		summary.Day7 = unmeasurablePoint(7)
	}
	if horizon < 30 {
		summary.Day30 = unmeasurablePoint(30)
	}

	return &models.RetentionAnalytics{
		CohortWindow:      cohortWindow.Window(),
		CohortSize:        cohortSize,
		HorizonDays:       horizon,
		Curve:             curve,
		CurveDefinition:   retentionDefRolling,
		Summary:           summary,
		SummaryDefinition: retentionDefCalendar,
		Table:             buildCohortTable(members, horizon, now),
		GeneratedAt:       now,
	}
}

// rollingMeasurable reports whether the member's rolling day-d window has
// fully elapsed. Day 0 is always measurable: the first session itself sits
// in window 0, so the cohort definition pins it at 100%.
func rollingMeasurable(m *cohortMember, d int, now time.Time) bool {
	if d == 0 {
		return true
	}
	return !now.Before(m.firstAt.Add(time.Duration(d+1) * day))
}

// calendarMeasurable reports whether the member's calendar day d has fully
// elapsed (midnight-UTC anchored).
func calendarMeasurable(m *cohortMember, d int, now time.Time) bool {
	if d == 0 {
		return true
	}
	firstDay := m.firstAt.Truncate(day)
	return !now.Before(firstDay.Add(time.Duration(d+1) * day))
}

func rollingBit(m *cohortMember, d int) bool  { return m.rolling&(1<<uint(d)) != 0 }
func calendarBit(m *cohortMember, d int) bool { return m.calendar&(1<<uint(d)) != 0 }

// retentionPointAt measures retention at one day offset over the given
// members. The rate's denominator is the measurable members only; a point
// nobody can be measured at carries a placeholder zero and measurable=false.
func retentionPointAt(members []*cohortMember, d int, now time.Time,
	measurableFn func(*cohortMember, int, time.Time) bool,
	activeFn func(*cohortMember, int) bool) models.RetentionPoint {

	var measurable, active int64
	for _, m := range members {
		if !measurableFn(m, d, now) {
			continue
		}
		measurable++
		if activeFn(m, d) {
			active++
		}
	}

	point := models.RetentionPoint{
		DayOffset:         d,
		ActivePlayers:     active,
		MeasurableMembers: measurable,
	}

	if measurable == 0 {
		// No member's window has elapsed; the rate is a placeholder.
		point.Measurable = false
		return point
	}

	point.Measurable = true
	point.Rate = roundPct(ratio(float64(active), float64(measurable)) * 100)
	point.Provisional = measurable < int64(len(members))
	return point
}

// unmeasurablePoint is the placeholder for offsets beyond the horizon.
func unmeasurablePoint(d int) models.RetentionPoint {
	return models.RetentionPoint{DayOffset: d, Measurable: false}
}

// clampOffset bounds a conventional offset to the configured horizon.
func clampOffset(d, horizon int) int {
	if d > horizon {
		return horizon
	}
	return d
}

// buildCohortTable groups members by their UTC entry day and measures every
// day offset through the horizon per group, calendar-day anchored.
func buildCohortTable(members map[string]*cohortMember, horizon int, now time.Time) []models.CohortDateRetention {
	byDate := make(map[string][]*cohortMember)
	for _, m := range members {
		key := m.firstAt.Truncate(day).Format(time.DateOnly)
		byDate[key] = append(byDate[key], m)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	table := make([]models.CohortDateRetention, 0, len(dates))
	for _, date := range dates {
		group := byDate[date]
		row := models.CohortDateRetention{
			CohortDate: date,
			CohortSize: int64(len(group)),
			Days:       make([]models.RetentionPoint, 0, horizon+1),
		}
		for d := 0; d <= horizon; d++ {
			row.Days = append(row.Days, retentionPointAt(group, d, now, calendarMeasurable, calendarBit))
		}
		table = append(table, row)
	}
	return table
}

// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

// This file contains cohort retention models. The engine reports retention
// under two explicit definitions, labeled in the payload so dashboards never
// mix them up:
//
//   - "rolling_hours": day N covers [first_session + N*24h, first_session +
//     (N+1)*24h) per cohort member. Used for the retention curve.
//   - "calendar_day": day N is the UTC calendar day N days after the
//     member's first-session calendar day. Used for the day-1/7/30 summary
//     and the per-cohort-date table.
package models

import "time"

// RetentionAnalytics is the full cohort retention document for one query.
// The cohort is the set of players whose earliest session ever starts inside
// the cohort window.
type RetentionAnalytics struct {
	// CohortWindow is the half-open interval the cohort was drawn from.
	CohortWindow PeriodWindow `json:"cohort_window"`

	// PreviousWindow is the equal-length interval preceding CohortWindow.
	// The comparison cohort is drawn from it.
	PreviousWindow PeriodWindow `json:"previous_window"`

	// CohortSize is the number of players in the cohort.
	CohortSize int64 `json:"cohort_size"`

	// HorizonDays is the maximum day offset tracked.
	HorizonDays int `json:"horizon_days"`

	// Curve is the rolling-hours retention curve, day 0 through the horizon.
	Curve []RetentionPoint `json:"curve"`

	// CurveDefinition labels the windowing rule used for Curve.
	CurveDefinition string `json:"curve_definition"`

	// Summary is the calendar-day day-1/7/30 snapshot.
	Summary RetentionSummary `json:"summary"`

	// SummaryDefinition labels the windowing rule used for Summary and Table.
	SummaryDefinition string `json:"summary_definition"`

	// Table breaks retention down by cohort entry date (calendar-day rule).
	Table []CohortDateRetention `json:"table"`

	// Comparison pairs the headline values with those of the cohort drawn
	// from PreviousWindow.
	Comparison RetentionComparison `json:"comparison"`

	// GeneratedAt is when this analysis was computed.
	GeneratedAt time.Time `json:"generated_at"`
}

// RetentionPoint is the retention measurement at a single day offset.
type RetentionPoint struct {
	// DayOffset is the number of days since cohort entry. Day 0 is the
	// entry day itself and is always 100% by definition.
	DayOffset int `json:"day_offset"`

	// ActivePlayers is the count of cohort members active at this offset.
	ActivePlayers int64 `json:"active_players"`

	// MeasurableMembers is the count of members whose day-offset window has
	// fully elapsed. The rate denominator.
	MeasurableMembers int64 `json:"measurable_members"`

	// Rate is ActivePlayers / MeasurableMembers * 100 rounded to a whole
	// percent, in [0, 100]. Zero when no member is measurable.
	Rate float64 `json:"rate"`

	// Measurable is false when no member's window has elapsed at all. The
	// rate is then a placeholder zero, not a measured value.
	Measurable bool `json:"measurable"`

	// Provisional is true when only some members' windows have elapsed.
	// The rate covers measurable members only and may shift as time passes.
	Provisional bool `json:"provisional,omitempty"`
}

// RetentionSummary is the calendar-day retention snapshot at the three
// offsets dashboards conventionally show.
type RetentionSummary struct {
	Day1  RetentionPoint `json:"day1"`
	Day7  RetentionPoint `json:"day7"`
	Day30 RetentionPoint `json:"day30"`
}

// RetentionComparison pairs the headline retention values with the preceding
// cohort window's values. Rates follow the calendar-day definition.
type RetentionComparison struct {
	CohortSize Comparison `json:"cohort_size"`
	Day1       Comparison `json:"day1"`
	Day7       Comparison `json:"day7"`
	Day30      Comparison `json:"day30"`
}

// CohortDateRetention is the retention row for players who entered the
// cohort on a specific calendar date.
type CohortDateRetention struct {
	// CohortDate is the UTC entry day in YYYY-MM-DD format.
	CohortDate string `json:"cohort_date"`

	// CohortSize is the number of players who entered that day.
	CohortSize int64 `json:"cohort_size"`

	// Days holds one measurement per day offset, 0 through the horizon.
	Days []RetentionPoint `json:"days"`
}

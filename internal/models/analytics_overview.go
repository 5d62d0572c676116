// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package models

// OverviewAnalytics is the headline dashboard card: the key engagement and
// monetization totals for the requested period, each compared against the
// preceding period, plus activity over rolling windows anchored to now.
type OverviewAnalytics struct {
	Period   PeriodWindow `json:"period"`
	Previous PeriodWindow `json:"previous_period"`

	// ActivePlayers is the count of distinct players with at least one
	// session starting in the period.
	ActivePlayers Comparison `json:"active_players"`

	// Sessions is the count of sessions starting in the period.
	Sessions Comparison `json:"sessions"`

	// NewPlayers is the count of players whose first session ever falls
	// inside the period.
	NewPlayers Comparison `json:"new_players"`

	// PlaytimeHours is the summed duration of closed sessions, in hours.
	PlaytimeHours Comparison `json:"playtime_hours"`

	// Revenue is the summed transaction amount in cents.
	Revenue Comparison `json:"revenue_cents"`

	// Rolling holds activity over windows anchored to the current instant,
	// independent of the requested period.
	Rolling RollingActivity `json:"rolling"`
}

// RollingActivity reports distinct active players over rolling windows
// anchored to now: today, the trailing 7 days, and the trailing 30 days.
type RollingActivity struct {
	// DAU is distinct players active today (UTC calendar day).
	DAU int64 `json:"dau"`

	// WAU is distinct players active in the trailing 7 days including today.
	WAU int64 `json:"wau"`

	// MAU is distinct players active in the trailing 30 days including today.
	MAU int64 `json:"mau"`

	// Stickiness is DAU / MAU * 100, or 0 when MAU is 0.
	Stickiness float64 `json:"stickiness"`
}

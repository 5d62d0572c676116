// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package models

// EngagementAnalytics reports how players interacted with the game over the
// requested period, compared against the preceding period of equal length.
type EngagementAnalytics struct {
	Period   PeriodWindow `json:"period"`
	Previous PeriodWindow `json:"previous_period"`

	// ActivePlayers is the count of distinct players with a session
	// starting in the period.
	ActivePlayers Comparison `json:"active_players"`

	// Sessions is the count of sessions starting in the period.
	Sessions Comparison `json:"sessions"`

	// NewPlayers is the count of players whose first session ever falls
	// inside the period.
	NewPlayers Comparison `json:"new_players"`

	// AvgSessionSeconds is the mean duration of sessions that have ended.
	// Open sessions do not contribute.
	AvgSessionSeconds Comparison `json:"avg_session_seconds"`

	// SessionsPerPlayer is Sessions / ActivePlayers, or 0 when no players.
	SessionsPerPlayer Comparison `json:"sessions_per_player"`

	// DailyActive breaks the current period down by UTC calendar day.
	DailyActive []DailyActivity `json:"daily_active"`
}

// DailyActivity is one day's activity within a period breakdown.
type DailyActivity struct {
	// Date is the UTC calendar day in YYYY-MM-DD format.
	Date string `json:"date"`

	// Players is the count of distinct players with a session that day.
	Players int64 `json:"players"`

	// Sessions is the count of sessions starting that day.
	Sessions int64 `json:"sessions"`
}

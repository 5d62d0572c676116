// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package models

// ChurnAnalytics reports, for each activity day in the requested period,
// the fraction of that day's active players who then went silent for the
// full grace window.
type ChurnAnalytics struct {
	Period PeriodWindow `json:"period"`

	// Previous is the equal-length period preceding Period, used for the
	// overall-rate comparison.
	Previous PeriodWindow `json:"previous_period"`

	// GraceDays is the trailing no-activity window that defines churn.
	// A player active on day X churns if they have no activity in
	// (X, X + GraceDays].
	GraceDays int `json:"grace_days"`

	// Days holds the per-day churn measurements, oldest first.
	Days []ChurnPoint `json:"days"`

	// OverallRate averages the churn rate over the days whose grace window
	// has fully elapsed. Zero when no day is final yet.
	OverallRate float64 `json:"overall_rate"`

	// OverallComparison pairs OverallRate with the preceding period's
	// overall rate.
	OverallComparison Comparison `json:"overall_comparison"`

	// Provisional is true when any day in the period is still provisional.
	Provisional bool `json:"provisional,omitempty"`
}

// ChurnPoint is the churn measurement for one activity day.
type ChurnPoint struct {
	// Date is the UTC activity day in YYYY-MM-DD format.
	Date string `json:"date"`

	// ActivePlayers is the count of distinct players active that day.
	ActivePlayers int64 `json:"active_players"`

	// Churned is the count of those players with no activity in the
	// grace window following that day.
	Churned int64 `json:"churned"`

	// Rate is Churned / ActivePlayers * 100, or 0 when no players.
	Rate float64 `json:"rate"`

	// Provisional is true when the grace window overlaps the current
	// instant. Players counted as churned may still return.
	Provisional bool `json:"provisional,omitempty"`
}

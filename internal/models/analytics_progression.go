// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package models

// ProgressionAnalytics reports progression event activity over the requested
// period, compared against the preceding period of equal length.
type ProgressionAnalytics struct {
	Period   PeriodWindow `json:"period"`
	Previous PeriodWindow `json:"previous_period"`

	// Events is the count of progression-type events in the period.
	Events Comparison `json:"events"`

	// Players is the count of distinct players emitting progression events.
	Players Comparison `json:"players"`

	// TopEvents lists the most frequent progression events in the current
	// period, highest count first.
	TopEvents []EventCount `json:"top_events"`

	// Funnel pairs start/complete progression events by shared name stem
	// (e.g. "level_3_start" with "level_3_complete").
	Funnel []FunnelStep `json:"funnel"`
}

// EventCount is the occurrence count for one event name.
type EventCount struct {
	Name    string `json:"name"`
	Count   int64  `json:"count"`
	Players int64  `json:"players"`
}

// FunnelStep is one start/complete pair in the progression funnel.
type FunnelStep struct {
	// Name is the shared event name stem.
	Name string `json:"name"`

	// Started is the count of distinct players who emitted the start event.
	Started int64 `json:"started"`

	// Completed is the count of distinct players who emitted the complete
	// event.
	Completed int64 `json:"completed"`

	// CompletionRate is Completed / Started * 100, or 0 when none started.
	CompletionRate float64 `json:"completion_rate"`
}

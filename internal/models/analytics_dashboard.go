// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package models

import "time"

// DashboardAnalytics is the combined metrics document: every metric family
// for one game and period in a single response. Sections are computed
// independently; a failed section is marked degraded while the rest of the
// document still returns.
type DashboardAnalytics struct {
	GameID   string       `json:"game_id"`
	Period   PeriodWindow `json:"period"`
	Previous PeriodWindow `json:"previous_period"`

	Overview     MetricSection `json:"overview"`
	Engagement   MetricSection `json:"engagement"`
	Retention    MetricSection `json:"retention"`
	Churn        MetricSection `json:"churn"`
	Monetization MetricSection `json:"monetization"`
	Progression  MetricSection `json:"progression"`
	Performance  MetricSection `json:"performance"`

	// Partial is true when at least one section is degraded.
	Partial bool `json:"partial"`

	// GeneratedAt is when this document was assembled.
	GeneratedAt time.Time `json:"generated_at"`
}

// Sections returns the document's sections keyed by family name.
// Useful for iteration in assembly and tests.
func (d *DashboardAnalytics) Sections() map[string]MetricSection {
	return map[string]MetricSection{
		"overview":     d.Overview,
		"engagement":   d.Engagement,
		"retention":    d.Retention,
		"churn":        d.Churn,
		"monetization": d.Monetization,
		"progression":  d.Progression,
		"performance":  d.Performance,
	}
}

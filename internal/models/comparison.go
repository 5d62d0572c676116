// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

// Package models provides data structures for the Playlytics metrics engine.
// This file contains the period and comparison primitives shared by all
// metric families.
package models

import "time"

// PeriodWindow describes a half-open time interval [Start, End).
type PeriodWindow struct {
	// Start is the inclusive lower bound.
	Start time.Time `json:"start"`

	// End is the exclusive upper bound.
	End time.Time `json:"end"`

	// Days is the window length in whole days, rounding partial days up.
	Days int `json:"days"`
}

// Comparison pairs a current-period value with the equal-length preceding
// period and the relative change between them.
//
// Delta conventions:
//   - previous == 0 and current == 0: DeltaPct is 0
//   - previous == 0 and current > 0: DeltaPct saturates at +100
type Comparison struct {
	// Current is the value over the requested period.
	Current float64 `json:"current"`

	// Previous is the value over the preceding period of equal length.
	Previous float64 `json:"previous"`

	// DeltaPct is (Current - Previous) / |Previous| * 100.
	DeltaPct float64 `json:"delta_pct"`

	// Direction is "up", "down", or "stable".
	Direction string `json:"direction"`
}

// MetricSection wraps one metric family's payload with its degradation state.
// A section whose computation failed carries a nil Data, Degraded true, and
// an error code; the enclosing document still returns success.
type MetricSection struct {
	Data     interface{} `json:"data"`
	Degraded bool        `json:"degraded,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// DegradedSection builds a MetricSection for a failed computation.
func DegradedSection(code string) MetricSection {
	return MetricSection{Data: nil, Degraded: true, Error: code}
}

// OKSection builds a MetricSection for a successful computation.
func OKSection(data interface{}) MetricSection {
	return MetricSection{Data: data}
}

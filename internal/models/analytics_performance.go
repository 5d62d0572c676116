// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package models

// PerformanceAnalytics reports client stability over the requested period,
// compared against the preceding period of equal length. Crashes and errors
// are telemetry events with event_type "crash" and "error".
type PerformanceAnalytics struct {
	Period   PeriodWindow `json:"period"`
	Previous PeriodWindow `json:"previous_period"`

	// Crashes is the count of crash events in the period.
	Crashes Comparison `json:"crashes"`

	// Errors is the count of error events in the period.
	Errors Comparison `json:"errors"`

	// CrashRatePerSession is Crashes / sessions * 100, or 0.
	CrashRatePerSession Comparison `json:"crash_rate_per_session"`

	// CrashFreePlayers is the percentage of active players with no crash
	// event in the period, or 0 when no players.
	CrashFreePlayers Comparison `json:"crash_free_players"`

	// TopCrashVersions lists the game versions with the most crashes in the
	// current period, highest first.
	TopCrashVersions []VersionCrashCount `json:"top_crash_versions"`

	// TopCrashDevices lists the device models with the most crashes in the
	// current period, highest first.
	TopCrashDevices []DeviceCrashCount `json:"top_crash_devices"`
}

// VersionCrashCount is the crash count attributed to one game version.
type VersionCrashCount struct {
	Version string `json:"version"`
	Crashes int64  `json:"crashes"`
	Players int64  `json:"players"`
}

// DeviceCrashCount is the crash count attributed to one device model.
type DeviceCrashCount struct {
	DeviceModel string `json:"device_model"`
	Crashes     int64  `json:"crashes"`
	Players     int64  `json:"players"`
}

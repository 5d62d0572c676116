// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"errors"

	"github.com/tomtom215/playlytics/internal/database/query"
)

// ErrInvalidRange is returned when a requested date range is unparseable or
// inverted (start after end). It rejects the whole request before any
// aggregation runs.
var ErrInvalidRange = errors.New("invalid date range")

// Filter is the typed query descriptor every metric computation receives.
// An empty slice means the dimension is unconstrained. Unknown values are
// not errors; they simply match nothing.
type Filter struct {
	// GameID scopes every query. Required.
	GameID string

	// Range is the requested half-open period.
	Range TimeRange

	// Countries, Platforms, and DeviceModels constrain players through the
	// devices table via an EXISTS subquery.
	Countries    []string
	Platforms    []string
	DeviceModels []string

	// Versions constrains sessions by game_version.
	Versions []string

	// PlayerIDs narrows to specific players.
	PlayerIDs []string
}

// hasDeviceDims reports whether any device-table dimension is constrained.
func (f Filter) hasDeviceDims() bool {
	return len(f.Countries) > 0 || len(f.Platforms) > 0 || len(f.DeviceModels) > 0
}

// WhereSessions builds the WHERE conditions for the sessions table (alias
// "s") over the given range. Callers may add further clauses before Build.
func (f Filter) WhereSessions(rng TimeRange) *query.WhereBuilder {
	wb := query.NewWhereBuilder()
	wb.AddEquals("s.game_id", f.GameID)
	wb.AddHalfOpenRange("s.started_at", rng.Start, rng.End)
	wb.AddIn("s.game_version", f.Versions)
	wb.AddIn("s.player_id", f.PlayerIDs)
	wb.AddDeviceDims("s.player_id", f.Countries, f.Platforms, f.DeviceModels)
	return wb
}

// WhereSessionsNoRange builds the session conditions without a time bound.
// Used where the computation itself scans all history, such as resolving
// each player's earliest session.
func (f Filter) WhereSessionsNoRange() *query.WhereBuilder {
	wb := query.NewWhereBuilder()
	wb.AddEquals("s.game_id", f.GameID)
	wb.AddIn("s.game_version", f.Versions)
	wb.AddIn("s.player_id", f.PlayerIDs)
	wb.AddDeviceDims("s.player_id", f.Countries, f.Platforms, f.DeviceModels)
	return wb
}

// WhereEvents builds the WHERE conditions for the events table (alias "e")
// over the given range. The version constraint goes through the owning
// session since events carry no version column.
func (f Filter) WhereEvents(rng TimeRange) *query.WhereBuilder {
	wb := query.NewWhereBuilder()
	wb.AddEquals("e.game_id", f.GameID)
	wb.AddHalfOpenRange("e.occurred_at", rng.Start, rng.End)
	wb.AddIn("e.player_id", f.PlayerIDs)
	wb.AddDeviceDims("e.player_id", f.Countries, f.Platforms, f.DeviceModels)
	if len(f.Versions) > 0 {
		inner := query.NewWhereBuilder()
		inner.AddClause("sv.id = e.session_id")
		inner.AddIn("sv.game_version", f.Versions)
		clause, args := inner.Build()
		wb.AddClause("EXISTS (SELECT 1 FROM sessions sv WHERE "+clause+")", args...)
	}
	return wb
}

// WhereTransactions builds the WHERE conditions for the transactions table
// (alias "t") over the given range. Transactions have no session linkage, so
// the version constraint admits players who have any session on a matching
// version.
func (f Filter) WhereTransactions(rng TimeRange) *query.WhereBuilder {
	wb := query.NewWhereBuilder()
	wb.AddEquals("t.game_id", f.GameID)
	wb.AddHalfOpenRange("t.occurred_at", rng.Start, rng.End)
	wb.AddIn("t.player_id", f.PlayerIDs)
	wb.AddDeviceDims("t.player_id", f.Countries, f.Platforms, f.DeviceModels)
	if len(f.Versions) > 0 {
		inner := query.NewWhereBuilder()
		inner.AddClause("sv.player_id = t.player_id")
		inner.AddEquals("sv.game_id", f.GameID)
		inner.AddIn("sv.game_version", f.Versions)
		clause, args := inner.Build()
		wb.AddClause("EXISTS (SELECT 1 FROM sessions sv WHERE "+clause+")", args...)
	}
	return wb
}

// WithRange returns a copy of the filter scoped to a different period.
// Used when the same filter runs for current, previous, and rolling windows.
func (f Filter) WithRange(rng TimeRange) Filter {
	f.Range = rng
	return f
}

// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/playlytics/internal/database"
)

// MetricsRequest carries the raw query parameters of a metrics endpoint,
// validated before any parsing happens.
type MetricsRequest struct {
	GameID    string `validate:"required,max=128"`
	StartDate string `validate:"omitempty,dateonly"`
	EndDate   string `validate:"omitempty,dateonly"`
}

// filterAll is the sentinel meaning "no constraint" for any dimension.
// Treated identically to omitting the parameter.
const filterAll = "all"

// buildFilter turns the request's query parameters into the typed filter
// every metric computation receives.
//
// Date handling:
//   - Dates are YYYY-MM-DD calendar days. The end date is inclusive as
//     given; internally the range becomes half-open by advancing the upper
//     bound one day.
//   - Both dates absent: the trailing defaultRangeDays ending today.
//   - Only start absent: defaultRangeDays ending at the given end date.
//   - Only end absent: from the given start date through today.
//   - Inverted bounds (start after end) fail with database.ErrInvalidRange.
//
// Unparseable dates are caught earlier by validateRequest; this function
// still guards against them and maps the failure to ErrInvalidRange.
func buildFilter(r *http.Request, defaultRangeDays int, now time.Time) (database.Filter, error) {
	q := r.URL.Query()

	rng, err := resolveRange(q.Get("start_date"), q.Get("end_date"), defaultRangeDays, now)
	if err != nil {
		return database.Filter{}, err
	}

	return database.Filter{
		GameID:       q.Get("game_id"),
		Range:        rng,
		Countries:    parseListParam(q.Get("country")),
		Platforms:    parseListParam(q.Get("platform")),
		Versions:     parseListParam(q.Get("version")),
		DeviceModels: parseListParam(q.Get("device")),
		PlayerIDs:    parseListParam(q.Get("player_id")),
	}, nil
}

// resolveRange computes the half-open query range from the raw date params.
func resolveRange(startRaw, endRaw string, defaultRangeDays int, now time.Time) (database.TimeRange, error) {
	const dayDur = 24 * time.Hour
	todayStart := now.UTC().Truncate(dayDur)

	var start, endExclusive time.Time

	switch {
	case startRaw == "" && endRaw == "":
		return database.DefaultRange(now, defaultRangeDays), nil

	case startRaw == "":
		end, err := parseDate(endRaw)
		if err != nil {
			return database.TimeRange{}, err
		}
		endExclusive = end.Add(dayDur)
		start = endExclusive.Add(-time.Duration(defaultRangeDays) * dayDur)

	case endRaw == "":
		var err error
		start, err = parseDate(startRaw)
		if err != nil {
			return database.TimeRange{}, err
		}
		endExclusive = todayStart.Add(dayDur)

	default:
		var err error
		start, err = parseDate(startRaw)
		if err != nil {
			return database.TimeRange{}, err
		}
		end, err := parseDate(endRaw)
		if err != nil {
			return database.TimeRange{}, err
		}
		endExclusive = end.Add(dayDur)
	}

	if !start.Before(endExclusive) {
		return database.TimeRange{}, fmt.Errorf("%w: start %s is after end %s",
			database.ErrInvalidRange, start.Format(time.DateOnly), endExclusive.Add(-dayDur).Format(time.DateOnly))
	}

	return database.TimeRange{Start: start, End: endExclusive}, nil
}

// parseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: unparseable date %q", database.ErrInvalidRange, raw)
	}
	return t.UTC(), nil
}

// parseListParam splits a comma-separated dimension parameter. Empty values
// and the "all" sentinel (case-insensitive) mean unconstrained and yield nil.
func parseListParam(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, filterAll) {
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" || strings.EqualFold(trimmed, filterAll) {
			continue
		}
		values = append(values, trimmed)
	}
	if len(values) == 0 {
		return nil
	}
	return values
}

// isInvalidRange reports whether err stems from a bad date range.
func isInvalidRange(err error) bool {
	return errors.Is(err, database.ErrInvalidRange)
}

// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"time"

	"github.com/tomtom215/playlytics/internal/models"
)

const day = 24 * time.Hour

// TimeRange is a half-open interval [Start, End). All period arithmetic in
// the engine operates on these; no inclusive upper bounds anywhere.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the range length in whole days, rounding partial days up.
// A range of 6.5 days compares against a 7-day previous period.
func (r TimeRange) Days() int {
	d := r.End.Sub(r.Start)
	if d <= 0 {
		return 0
	}
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days
}

// Previous returns the period of equal whole-day length immediately
// preceding this one: [Start - Days()*24h, Start).
func (r TimeRange) Previous() TimeRange {
	return TimeRange{
		Start: r.Start.Add(-time.Duration(r.Days()) * day),
		End:   r.Start,
	}
}

// Contains reports whether t falls inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Window converts the range to its API representation.
func (r TimeRange) Window() models.PeriodWindow {
	return models.PeriodWindow{Start: r.Start, End: r.End, Days: r.Days()}
}

// RollingWindows holds the activity windows anchored to the current instant,
// independent of any requested period.
type RollingWindows struct {
	// Today covers the current UTC calendar day.
	Today TimeRange

	// Week covers the trailing 7 days including today.
	Week TimeRange

	// Month covers the trailing 30 days including today.
	Month TimeRange
}

// RollingWindowsAt computes the rolling windows for the given instant.
// Each window ends at the start of tomorrow so that in-progress activity
// today is always included.
func RollingWindowsAt(now time.Time) RollingWindows {
	todayStart := now.UTC().Truncate(day)
	tomorrowStart := todayStart.Add(day)

	return RollingWindows{
		Today: TimeRange{Start: todayStart, End: tomorrowStart},
		Week:  TimeRange{Start: todayStart.Add(-6 * day), End: tomorrowStart},
		Month: TimeRange{Start: todayStart.Add(-29 * day), End: tomorrowStart},
	}
}

// DefaultRange returns the last n calendar days ending today, as a half-open
// range [today-(n-1)d, tomorrow). Used when a request omits both dates.
func DefaultRange(now time.Time, n int) TimeRange {
	todayStart := now.UTC().Truncate(day)
	return TimeRange{
		Start: todayStart.Add(-time.Duration(n-1) * day),
		End:   todayStart.Add(day),
	}
}

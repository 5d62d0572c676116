// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimeRangeDays(t *testing.T) {
	tests := []struct {
		name string
		rng  TimeRange
		want int
	}{
		{
			name: "exact week",
			rng:  TimeRange{Start: date(2026, 1, 1), End: date(2026, 1, 8)},
			want: 7,
		},
		{
			name: "single day",
			rng:  TimeRange{Start: date(2026, 1, 1), End: date(2026, 1, 2)},
			want: 1,
		},
		{
			name: "partial day rounds up",
			rng: TimeRange{
				Start: date(2026, 1, 1),
				End:   time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC),
			},
			want: 7,
		},
		{
			name: "empty range",
			rng:  TimeRange{Start: date(2026, 1, 1), End: date(2026, 1, 1)},
			want: 0,
		},
		{
			name: "inverted range",
			rng:  TimeRange{Start: date(2026, 1, 8), End: date(2026, 1, 1)},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rng.Days(); got != tt.want {
				t.Errorf("Days() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTimeRangePrevious(t *testing.T) {
	rng := TimeRange{Start: date(2026, 2, 8), End: date(2026, 2, 15)}
	prev := rng.Previous()

	if !prev.End.Equal(rng.Start) {
		t.Errorf("previous period must end where current starts: end=%v start=%v", prev.End, rng.Start)
	}
	if prev.Days() != rng.Days() {
		t.Errorf("previous period length %d != current length %d", prev.Days(), rng.Days())
	}
	if !prev.Start.Equal(date(2026, 2, 1)) {
		t.Errorf("previous start = %v, want 2026-02-01", prev.Start)
	}
}

func TestTimeRangePreviousPartialDays(t *testing.T) {
	// 6.5-day range compares against a full 7-day previous period.
	rng := TimeRange{
		Start: date(2026, 3, 1),
		End:   time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC),
	}
	prev := rng.Previous()

	if prev.Days() != 7 {
		t.Errorf("previous Days() = %d, want 7", prev.Days())
	}
	if !prev.Start.Equal(date(2026, 2, 22)) {
		t.Errorf("previous start = %v, want 2026-02-22", prev.Start)
	}
}

func TestTimeRangeContains(t *testing.T) {
	rng := TimeRange{Start: date(2026, 1, 1), End: date(2026, 1, 8)}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"start is inside", rng.Start, true},
		{"middle is inside", date(2026, 1, 4), true},
		{"end is outside", rng.End, false},
		{"before start", date(2025, 12, 31), false},
		{"just before end", rng.End.Add(-time.Nanosecond), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rng.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestRollingWindowsAt(t *testing.T) {
	now := time.Date(2026, 6, 15, 14, 30, 0, 0, time.UTC)
	w := RollingWindowsAt(now)

	tomorrowStart := date(2026, 6, 16)

	if !w.Today.Start.Equal(date(2026, 6, 15)) || !w.Today.End.Equal(tomorrowStart) {
		t.Errorf("Today = %+v", w.Today)
	}
	if !w.Week.Start.Equal(date(2026, 6, 9)) || !w.Week.End.Equal(tomorrowStart) {
		t.Errorf("Week = %+v", w.Week)
	}
	if !w.Month.Start.Equal(date(2026, 5, 17)) || !w.Month.End.Equal(tomorrowStart) {
		t.Errorf("Month = %+v", w.Month)
	}

	if w.Week.Days() != 7 {
		t.Errorf("Week.Days() = %d, want 7", w.Week.Days())
	}
	if w.Month.Days() != 30 {
		t.Errorf("Month.Days() = %d, want 30", w.Month.Days())
	}
}

func TestDefaultRange(t *testing.T) {
	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	rng := DefaultRange(now, 7)

	if !rng.Start.Equal(date(2026, 6, 9)) {
		t.Errorf("Start = %v, want 2026-06-09", rng.Start)
	}
	if !rng.End.Equal(date(2026, 6, 16)) {
		t.Errorf("End = %v, want 2026-06-16", rng.End)
	}
	if rng.Days() != 7 {
		t.Errorf("Days() = %d, want 7", rng.Days())
	}
	if !rng.Contains(now) {
		t.Error("default range must include the current instant")
	}
}

func TestWindowConversion(t *testing.T) {
	rng := TimeRange{Start: date(2026, 1, 1), End: date(2026, 1, 8)}
	w := rng.Window()

	if !w.Start.Equal(rng.Start) || !w.End.Equal(rng.End) || w.Days != 7 {
		t.Errorf("Window() = %+v", w)
	}
}

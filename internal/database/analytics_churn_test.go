// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"testing"
)

func TestBuildChurnGraceWindow(t *testing.T) {
	rng := TimeRange{Start: date(2024, 1, 1), End: date(2024, 1, 8)}
	now := date(2024, 3, 1) // every grace window closed long ago

	// Day indexes relative to Jan 1.
	activity := map[string][]int{
		"returns_in_grace": {0, 2}, // active day 0, back on day 2 (grace 3)
		"returns_too_late": {0, 5}, // back after the grace window
		"steady":           {0, 1, 2, 3, 4, 5, 6},
	}

	doc := buildChurn(activity, rng, 3, now)

	if len(doc.Days) != 7 {
		t.Fatalf("days = %d, want 7", len(doc.Days))
	}

	d0 := doc.Days[0]
	if d0.ActivePlayers != 3 {
		t.Errorf("day 0 active = %d, want 3", d0.ActivePlayers)
	}
	if d0.Churned != 1 {
		t.Errorf("day 0 churned = %d, want 1 (only the late returner)", d0.Churned)
	}
	if d0.Rate != 33.33 {
		t.Errorf("day 0 rate = %v, want 33.33", d0.Rate)
	}
	if d0.Provisional {
		t.Error("closed grace window must not be provisional")
	}

	// Day 5: the late returner's last activity, no follow-up in grace.
	d5 := doc.Days[5]
	if d5.ActivePlayers != 2 || d5.Churned != 1 {
		t.Errorf("day 5 = %+v, want active 2 churned 1", d5)
	}
}

func TestBuildChurnProvisionalDays(t *testing.T) {
	rng := TimeRange{Start: date(2024, 1, 1), End: date(2024, 1, 8)}
	// Day 3's grace window (ends start of day 3+grace+1 = Jan 8) has not
	// elapsed at Jan 7.
	now := date(2024, 1, 7)

	activity := map[string][]int{
		"p": {0, 3},
	}

	doc := buildChurn(activity, rng, 3, now)

	// Days 0..6 have started by Jan 7 (now inside day 6).
	if len(doc.Days) != 7 {
		t.Fatalf("days = %d, want 7", len(doc.Days))
	}

	if doc.Days[0].Provisional {
		t.Error("day 0 grace closed on Jan 5, must be final")
	}
	if !doc.Days[3].Provisional {
		t.Error("day 3 grace still open, must be provisional")
	}
	if !doc.Provisional {
		t.Error("document must be flagged provisional")
	}
}

func TestBuildChurnFutureDaysExcluded(t *testing.T) {
	rng := TimeRange{Start: date(2024, 1, 1), End: date(2024, 1, 15)}
	now := date(2024, 1, 5) // inside day 4

	doc := buildChurn(map[string][]int{"p": {0}}, rng, 7, now)

	// Only days 0..5 have started (now falls inside day 4, so 5 elapsed
	// starts: indexes 0 through 4, plus the day containing now).
	if len(doc.Days) != 5 {
		t.Errorf("days = %d, want 5 elapsed days of a 14-day range", len(doc.Days))
	}
	for _, d := range doc.Days {
		if !d.Provisional {
			t.Errorf("every day near now must be provisional: %+v", d)
		}
	}
	if doc.OverallRate != 0 {
		t.Errorf("OverallRate = %v, want 0 with no final days", doc.OverallRate)
	}
}

func TestBuildChurnOverallRate(t *testing.T) {
	rng := TimeRange{Start: date(2024, 1, 1), End: date(2024, 1, 4)}
	now := date(2024, 6, 1)

	activity := map[string][]int{
		"a": {0, 1}, // day 0 retained, day 1 churned
		"b": {0},    // day 0 churned
	}

	doc := buildChurn(activity, rng, 2, now)

	// Day 0: 2 active, 1 churned (b) -> 50. Day 1: 1 active, 1 churned -> 100.
	// Day 2: no activity, excluded from the mean.
	if doc.Days[0].Rate != 50 {
		t.Errorf("day 0 rate = %v, want 50", doc.Days[0].Rate)
	}
	if doc.Days[1].Rate != 100 {
		t.Errorf("day 1 rate = %v, want 100", doc.Days[1].Rate)
	}
	if doc.OverallRate != 75 {
		t.Errorf("OverallRate = %v, want mean of final active days 75", doc.OverallRate)
	}
	if doc.Provisional {
		t.Error("fully elapsed document must not be provisional")
	}
}

func TestBuildChurnEmptyActivity(t *testing.T) {
	rng := TimeRange{Start: date(2024, 1, 1), End: date(2024, 1, 8)}
	doc := buildChurn(map[string][]int{}, rng, 7, date(2024, 6, 1))

	if len(doc.Days) != 7 {
		t.Fatalf("days = %d, want 7", len(doc.Days))
	}
	for _, d := range doc.Days {
		if d.ActivePlayers != 0 || d.Churned != 0 || d.Rate != 0 {
			t.Errorf("empty day must be all zeros: %+v", d)
		}
	}
	if doc.OverallRate != 0 {
		t.Errorf("OverallRate = %v, want 0", doc.OverallRate)
	}
}

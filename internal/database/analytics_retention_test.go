// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"testing"
	"time"
)

// memberWith builds a cohort member whose activity instants are folded into
// both bitmask definitions, the same way the loader does it.
func memberWith(firstAt time.Time, horizon int, activity ...time.Time) *cohortMember {
	m := &cohortMember{firstAt: firstAt.UTC()}
	m.mark(firstAt.UTC(), horizon)
	for _, a := range activity {
		m.mark(a.UTC(), horizon)
	}
	return m
}

func TestCohortMemberMarkRollingVsCalendar(t *testing.T) {
	// First session late on Jan 3. A return in the early hours of Jan 10
	// falls in rolling window 6 (less than 7*24h elapsed) but on calendar
	// day 7.
	firstAt := time.Date(2024, 1, 3, 22, 0, 0, 0, time.UTC)
	returnAt := time.Date(2024, 1, 10, 2, 0, 0, 0, time.UTC)

	m := memberWith(firstAt, 30, returnAt)

	if !rollingBit(m, 0) || !calendarBit(m, 0) {
		t.Error("first session must set bit 0 in both definitions")
	}
	if !rollingBit(m, 6) {
		t.Error("return at +6d4h must set rolling bit 6")
	}
	if rollingBit(m, 7) {
		t.Error("return at +6d4h must not set rolling bit 7")
	}
	if !calendarBit(m, 7) {
		t.Error("return on the seventh calendar day must set calendar bit 7")
	}
	if calendarBit(m, 6) {
		t.Error("calendar bit 6 must stay clear")
	}
}

func TestCohortMemberMarkOutOfHorizon(t *testing.T) {
	firstAt := date(2024, 1, 1)
	m := memberWith(firstAt, 7,
		firstAt.Add(9*day),       // beyond horizon, dropped
		firstAt.Add(-time.Hour)) // before first session, dropped

	if m.rolling != 1 || m.calendar != 1 {
		t.Errorf("only bit 0 should be set: rolling=%b calendar=%b", m.rolling, m.calendar)
	}
}

func TestBuildRetentionDayZeroAlwaysFull(t *testing.T) {
	window := TimeRange{Start: date(2024, 1, 1), End: date(2024, 1, 8)}
	now := date(2024, 3, 1)

	members := map[string]*cohortMember{
		"p1": memberWith(date(2024, 1, 2), 30),
		"p2": memberWith(date(2024, 1, 3), 30),
		"p3": memberWith(date(2024, 1, 5), 30),
	}

	doc := buildRetention(members, window, 30, now)

	if doc.CohortSize != 3 {
		t.Fatalf("CohortSize = %d, want 3", doc.CohortSize)
	}
	d0 := doc.Curve[0]
	if !d0.Measurable || d0.Provisional {
		t.Errorf("day 0 must be measurable and final: %+v", d0)
	}
	if d0.Rate != 100 {
		t.Errorf("day 0 rate = %v, want 100", d0.Rate)
	}
	if d0.ActivePlayers != 3 || d0.MeasurableMembers != 3 {
		t.Errorf("day 0 counts = %+v", d0)
	}
}

func TestBuildRetentionCurveRates(t *testing.T) {
	window := TimeRange{Start: date(2024, 1, 1), End: date(2024, 1, 8)}
	now := date(2024, 6, 1) // far enough out that every window has elapsed

	// Two of four members return in rolling window 1.
	members := map[string]*cohortMember{
		"p1": memberWith(date(2024, 1, 2), 7, date(2024, 1, 2).Add(26*time.Hour)),
		"p2": memberWith(date(2024, 1, 3), 7, date(2024, 1, 3).Add(30*time.Hour)),
		"p3": memberWith(date(2024, 1, 4), 7),
		"p4": memberWith(date(2024, 1, 5), 7),
	}

	doc := buildRetention(members, window, 7, now)

	if len(doc.Curve) != 8 {
		t.Fatalf("curve length = %d, want horizon+1 = 8", len(doc.Curve))
	}
	d1 := doc.Curve[1]
	if d1.Rate != 50 {
		t.Errorf("day 1 rate = %v, want 50", d1.Rate)
	}
	if d1.ActivePlayers != 2 || d1.MeasurableMembers != 4 {
		t.Errorf("day 1 counts = %+v", d1)
	}
	if d1.Provisional {
		t.Error("fully elapsed point must not be provisional")
	}

	for _, p := range doc.Curve {
		if p.Measurable && (p.Rate < 0 || p.Rate > 100) {
			t.Errorf("rate out of bounds at offset %d: %v", p.DayOffset, p.Rate)
		}
	}

	if doc.CurveDefinition != "rolling_hours" {
		t.Errorf("CurveDefinition = %q", doc.CurveDefinition)
	}
	if doc.SummaryDefinition != "calendar_day" {
		t.Errorf("SummaryDefinition = %q", doc.SummaryDefinition)
	}
}

func TestBuildRetentionProvisionalAndUnmeasurable(t *testing.T) {
	window := TimeRange{Start: date(2024, 1, 1), End: date(2024, 1, 8)}
	// Two days after the later member's entry: its day-2 window has not
	// elapsed, the earlier member's has.
	now := date(2024, 1, 6)

	members := map[string]*cohortMember{
		"early": memberWith(date(2024, 1, 1), 7, date(2024, 1, 3).Add(2*time.Hour)),
		"late":  memberWith(date(2024, 1, 4), 7),
	}

	doc := buildRetention(members, window, 7, now)

	d2 := doc.Curve[2]
	if !d2.Measurable {
		t.Fatal("day 2 should be measurable for the early member")
	}
	if !d2.Provisional {
		t.Error("day 2 must be provisional while the late member's window is open")
	}
	if d2.MeasurableMembers != 1 {
		t.Errorf("MeasurableMembers = %d, want 1", d2.MeasurableMembers)
	}
	if d2.Rate != 100 {
		t.Errorf("rate over measurable members = %v, want 100", d2.Rate)
	}

	// No member's day-6 window has elapsed yet.
	d6 := doc.Curve[6]
	if d6.Measurable {
		t.Errorf("day 6 should be unmeasurable: %+v", d6)
	}
	if d6.Rate != 0 || d6.Provisional {
		t.Errorf("unmeasurable point must carry zero placeholder: %+v", d6)
	}
}

func TestBuildRetentionEmptyCohort(t *testing.T) {
	window := TimeRange{Start: date(2024, 1, 1), End: date(2024, 1, 8)}
	doc := buildRetention(map[string]*cohortMember{}, window, 30, date(2024, 3, 1))

	if doc.CohortSize != 0 {
		t.Errorf("CohortSize = %d, want 0", doc.CohortSize)
	}
	if len(doc.Curve) != 31 {
		t.Errorf("curve length = %d, want 31", len(doc.Curve))
	}
	for _, p := range doc.Curve {
		if p.Measurable {
			t.Errorf("empty cohort point must be unmeasurable: %+v", p)
		}
	}
	if len(doc.Table) != 0 {
		t.Errorf("table should be empty, got %d rows", len(doc.Table))
	}
}

func TestBuildRetentionSummaryBeyondHorizon(t *testing.T) {
	window := TimeRange{Start: date(2024, 1, 1), End: date(2024, 1, 8)}
	members := map[string]*cohortMember{
		"p1": memberWith(date(2024, 1, 2), 7),
	}

	doc := buildRetention(members, window, 7, date(2024, 6, 1))

	if !doc.Summary.Day1.Measurable {
		t.Error("day 1 summary should be measurable")
	}
	if !doc.Summary.Day7.Measurable {
		t.Error("day 7 summary should be measurable at horizon 7")
	}
	if doc.Summary.Day30.Measurable {
		t.Error("day 30 summary must be unmeasurable at horizon 7")
	}
	if doc.Summary.Day30.DayOffset != 30 {
		t.Errorf("Day30 offset = %d, want 30", doc.Summary.Day30.DayOffset)
	}
}

func TestBuildCohortTable(t *testing.T) {
	now := date(2024, 6, 1)
	members := map[string]*cohortMember{
		"a": memberWith(date(2024, 1, 2).Add(8*time.Hour), 30, date(2024, 1, 3)),
		"b": memberWith(date(2024, 1, 2).Add(20*time.Hour), 30),
		"c": memberWith(date(2024, 1, 5), 30, date(2024, 1, 12)),
	}

	table := buildCohortTable(members, 30, now)

	if len(table) != 2 {
		t.Fatalf("table rows = %d, want 2", len(table))
	}
	if table[0].CohortDate != "2024-01-02" || table[1].CohortDate != "2024-01-05" {
		t.Errorf("dates out of order: %q, %q", table[0].CohortDate, table[1].CohortDate)
	}
	if table[0].CohortSize != 2 || table[1].CohortSize != 1 {
		t.Errorf("cohort sizes = %d, %d", table[0].CohortSize, table[1].CohortSize)
	}

	// Jan 2 cohort: one of two returned on calendar day 1.
	day1 := table[0].Days[1]
	if day1.DayOffset != 1 || day1.Rate != 50 {
		t.Errorf("day-1 cell = %+v, want offset 1 rate 50", day1)
	}

	// Jan 5 cohort: returned on calendar day 7.
	day7 := table[1].Days[7]
	if day7.DayOffset != 7 || day7.Rate != 100 {
		t.Errorf("day-7 cell = %+v, want offset 7 rate 100", day7)
	}
}

func TestBuildCohortTableCoversEveryOffset(t *testing.T) {
	now := date(2024, 6, 1)
	members := map[string]*cohortMember{
		"solo": memberWith(date(2024, 1, 2), 30, date(2024, 1, 9)),
	}

	table := buildCohortTable(members, 30, now)

	if len(table) != 1 {
		t.Fatalf("table rows = %d, want 1", len(table))
	}
	row := table[0]
	if len(row.Days) != 31 {
		t.Fatalf("offsets per row = %d, want horizon+1 = 31", len(row.Days))
	}
	for i, p := range row.Days {
		if p.DayOffset != i {
			t.Fatalf("Days[%d].DayOffset = %d, want %d", i, p.DayOffset, i)
		}
	}
	if row.Days[0].Rate != 100 {
		t.Errorf("day 0 rate = %v, want 100", row.Days[0].Rate)
	}
	if row.Days[7].Rate != 100 {
		t.Errorf("day 7 rate = %v, want 100", row.Days[7].Rate)
	}
	if row.Days[6].Rate != 0 {
		t.Errorf("day 6 rate = %v, want 0", row.Days[6].Rate)
	}
}

func TestRetentionComparison(t *testing.T) {
	now := date(2024, 6, 1)
	cur := buildRetention(map[string]*cohortMember{
		"a": memberWith(date(2024, 1, 8), 30, date(2024, 1, 9)),
		"b": memberWith(date(2024, 1, 9), 30),
	}, TimeRange{Start: date(2024, 1, 8), End: date(2024, 1, 15)}, 30, now)
	prev := buildRetention(map[string]*cohortMember{
		"c": memberWith(date(2024, 1, 2), 30, date(2024, 1, 3)),
	}, TimeRange{Start: date(2024, 1, 1), End: date(2024, 1, 8)}, 30, now)

	cmp := retentionComparison(cur, prev)

	if cmp.CohortSize.Current != 2 || cmp.CohortSize.Previous != 1 {
		t.Errorf("cohort size pair = %+v", cmp.CohortSize)
	}
	if cmp.Day1.Current != 50 || cmp.Day1.Previous != 100 {
		t.Errorf("day 1 pair = %+v", cmp.Day1)
	}
	if cmp.Day1.DeltaPct != -50 || cmp.Day1.Direction != "down" {
		t.Errorf("day 1 delta = %+v", cmp.Day1)
	}
	if cmp.Day7.Current != 0 || cmp.Day7.DeltaPct != 0 || cmp.Day7.Direction != "stable" {
		t.Errorf("day 7 pair = %+v", cmp.Day7)
	}
}

// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestDegradedSection(t *testing.T) {
	s := DegradedSection("AGGREGATION_FAILED")
	if !s.Degraded || s.Error != "AGGREGATION_FAILED" || s.Data != nil {
		t.Errorf("DegradedSection = %+v", s)
	}
}

func TestOKSection(t *testing.T) {
	s := OKSection(map[string]int{"n": 1})
	if s.Degraded || s.Error != "" || s.Data == nil {
		t.Errorf("OKSection = %+v", s)
	}
}

func TestMetricSectionJSON(t *testing.T) {
	// Healthy sections must not carry degradation noise in the payload.
	ok, err := json.Marshal(OKSection("payload"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(ok), "degraded") || strings.Contains(string(ok), "error") {
		t.Errorf("healthy section JSON = %s", ok)
	}

	bad, err := json.Marshal(DegradedSection("AGGREGATION_FAILED"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(bad), `"degraded":true`) {
		t.Errorf("degraded section JSON = %s", bad)
	}
	if !strings.Contains(string(bad), `"data":null`) {
		t.Errorf("degraded section must carry explicit null data: %s", bad)
	}
}

func TestDashboardSections(t *testing.T) {
	doc := &DashboardAnalytics{
		Overview:  OKSection("a"),
		Retention: DegradedSection("AGGREGATION_FAILED"),
	}

	sections := doc.Sections()
	if len(sections) != 7 {
		t.Fatalf("sections = %d, want 7", len(sections))
	}
	if !sections["retention"].Degraded {
		t.Error("retention section must reflect degradation")
	}
	if sections["overview"].Data != "a" {
		t.Errorf("overview section = %+v", sections["overview"])
	}
}

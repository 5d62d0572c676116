// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package validation

import (
	"strings"
	"testing"
)

type metricsParams struct {
	GameID    string `validate:"required,max=128"`
	StartDate string `validate:"omitempty,dateonly"`
	EndDate   string `validate:"omitempty,dateonly"`
}

func TestValidateStructPasses(t *testing.T) {
	tests := []struct {
		name string
		in   metricsParams
	}{
		{"minimal", metricsParams{GameID: "g1"}},
		{"with dates", metricsParams{GameID: "g1", StartDate: "2026-01-01", EndDate: "2026-01-31"}},
		{"leap day", metricsParams{GameID: "g1", StartDate: "2024-02-29"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(&tt.in); err != nil {
				t.Errorf("ValidateStruct() = %v, want nil", err)
			}
		})
	}
}

func TestValidateStructFails(t *testing.T) {
	tests := []struct {
		name      string
		in        metricsParams
		wantField string
		wantTag   string
	}{
		{
			name:      "missing game id",
			in:        metricsParams{},
			wantField: "GameID",
			wantTag:   "required",
		},
		{
			name:      "game id too long",
			in:        metricsParams{GameID: strings.Repeat("x", 129)},
			wantField: "GameID",
			wantTag:   "max",
		},
		{
			name:      "malformed date",
			in:        metricsParams{GameID: "g1", StartDate: "01/02/2026"},
			wantField: "StartDate",
			wantTag:   "dateonly",
		},
		{
			name:      "impossible date",
			in:        metricsParams{GameID: "g1", EndDate: "2026-02-30"},
			wantField: "EndDate",
			wantTag:   "dateonly",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.in)
			if verr == nil {
				t.Fatal("expected validation failure")
			}

			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("errors = %d, want 1: %v", len(errs), verr)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("field = %q, want %q", errs[0].Field(), tt.wantField)
			}
			if errs[0].Tag() != tt.wantTag {
				t.Errorf("tag = %q, want %q", errs[0].Tag(), tt.wantTag)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	verr := ValidateStruct(&metricsParams{})
	if verr == nil {
		t.Fatal("expected validation failure")
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("code = %q", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "GameID is required") {
		t.Errorf("message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "GameID" {
		t.Errorf("details = %v", apiErr.Details)
	}
}

func TestToAPIErrorMultipleFields(t *testing.T) {
	verr := ValidateStruct(&metricsParams{StartDate: "bad", EndDate: "worse"})
	if verr == nil {
		t.Fatal("expected validation failure")
	}
	if len(verr.Errors()) != 3 {
		t.Fatalf("errors = %d, want 3", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	if _, ok := apiErr.Details["fields"]; !ok {
		t.Errorf("multi-error details must list fields: %v", apiErr.Details)
	}
	if !strings.Contains(apiErr.Message, ";") {
		t.Errorf("multi-error message should join all failures: %q", apiErr.Message)
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator must return the same instance")
	}
}

// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

// Package query provides SQL query building utilities for the database package.
// It reduces code duplication and provides type-safe query construction.
package query

import (
	"fmt"
	"strings"
	"time"
)

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
// It ensures consistent parameter handling and reduces SQL injection risks.
//
// Example usage:
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("s.game_id", gameID)
//	wb.AddHalfOpenRange("s.started_at", start, end)
//	wb.AddIn("s.game_version", []string{"1.2.0", "1.3.0"})
//	whereClause, args := wb.Build()
//	// s.game_id = ? AND s.started_at >= ? AND s.started_at < ? AND s.game_version IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw WHERE clause with its arguments.
// This is useful for custom conditions not covered by helper methods.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds a "column = ?" condition.
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, column+" = ?")
	wb.args = append(wb.args, value)
	return wb
}

// AddHalfOpenRange adds a half-open interval condition on a timestamp column:
// "column >= ? AND column < ?". Every period predicate in the engine uses
// this form so interval boundaries never double-count.
func (wb *WhereBuilder) AddHalfOpenRange(column string, start, end time.Time) *WhereBuilder {
	wb.clauses = append(wb.clauses, column+" >= ?", column+" < ?")
	wb.args = append(wb.args, start, end)
	return wb
}

// AddIn adds a "column IN (?, ?, ...)" condition with proper
// parameterization. An empty value slice is skipped, meaning the dimension
// is unconstrained.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ", ")))
	return wb
}

// AddDeviceDims constrains the row's player to the devices table dimensions
// via an EXISTS subquery:
//
//	EXISTS (SELECT 1 FROM devices d WHERE d.player_id = <playerColumn>
//	        AND d.country IN (...) AND d.platform IN (...) AND d.device_model IN (...))
//
// Only the dimensions with values contribute conditions. When all three are
// empty no clause is added at all, so unfiltered queries skip the subquery.
func (wb *WhereBuilder) AddDeviceDims(playerColumn string, countries, platforms, deviceModels []string) *WhereBuilder {
	if len(countries) == 0 && len(platforms) == 0 && len(deviceModels) == 0 {
		return wb
	}

	inner := NewWhereBuilder()
	inner.AddClause("d.player_id = " + playerColumn)
	inner.AddIn("d.country", countries)
	inner.AddIn("d.platform", platforms)
	inner.AddIn("d.device_model", deviceModels)

	innerClause, innerArgs := inner.Build()
	wb.clauses = append(wb.clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM devices d WHERE %s)", innerClause))
	wb.args = append(wb.args, innerArgs...)
	return wb
}

// Build constructs the final WHERE clause and returns it with arguments.
// Clauses are joined with "AND". Returns ("1=1", []) if no clauses were added.
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the WHERE clause with "WHERE " prefix.
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}

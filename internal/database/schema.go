// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"context"
	"fmt"
)

// schemaStatements holds the idempotent DDL for the telemetry snapshot.
// The engine never mutates rows in normal operation; the schema exists so
// tests and local seeding have somewhere to live.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id VARCHAR PRIMARY KEY,
		game_id VARCHAR NOT NULL,
		external_id VARCHAR,
		first_seen_at TIMESTAMP NOT NULL,
		last_seen_at TIMESTAMP NOT NULL,
		session_count BIGINT NOT NULL DEFAULT 0,
		playtime_seconds BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id VARCHAR PRIMARY KEY,
		game_id VARCHAR NOT NULL,
		player_id VARCHAR NOT NULL,
		started_at TIMESTAMP NOT NULL,
		ended_at TIMESTAMP,
		duration_seconds BIGINT,
		game_version VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id VARCHAR PRIMARY KEY,
		session_id VARCHAR,
		game_id VARCHAR NOT NULL,
		player_id VARCHAR NOT NULL,
		name VARCHAR NOT NULL,
		event_type VARCHAR NOT NULL,
		occurred_at TIMESTAMP NOT NULL,
		params JSON
	)`,
	`CREATE TABLE IF NOT EXISTS devices (
		player_id VARCHAR NOT NULL,
		country VARCHAR,
		platform VARCHAR,
		device_model VARCHAR
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id VARCHAR PRIMARY KEY,
		external_txn_id VARCHAR UNIQUE,
		game_id VARCHAR NOT NULL,
		player_id VARCHAR NOT NULL,
		product_id VARCHAR NOT NULL,
		product_type VARCHAR NOT NULL,
		amount_cents BIGINT NOT NULL,
		currency VARCHAR NOT NULL,
		occurred_at TIMESTAMP NOT NULL
	)`,
}

// indexStatements covers the access paths the aggregate queries take:
// game+time scans and per-player lookups.
var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_sessions_game_started ON sessions (game_id, started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_player ON sessions (player_id)`,
	`CREATE INDEX IF NOT EXISTS idx_events_game_occurred ON events (game_id, occurred_at)`,
	`CREATE INDEX IF NOT EXISTS idx_events_player ON events (player_id)`,
	`CREATE INDEX IF NOT EXISTS idx_devices_player ON devices (player_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_game_occurred ON transactions (game_id, occurred_at)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_player ON transactions (player_id)`,
}

// createSchema creates the telemetry tables and indexes if they do not
// already exist. Safe to call on every startup.
func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	for _, stmt := range indexStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/playlytics/internal/config"
)

// DB wraps the DuckDB connection holding the telemetry snapshot and provides
// the metric computations. The engine only reads; schema creation and
// seeding exist to support tests and local development.
type DB struct {
	conn   *sql.DB
	cfg    *config.DatabaseConfig
	engine config.EngineConfig
}

// New opens the DuckDB store, configures the connection pool, and ensures
// the telemetry schema exists.
func New(cfg *config.DatabaseConfig, engine config.EngineConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure parent directory exists for the database file. The directory
	// must not be world-accessible.
	if cfg.Path != ":memory:" {
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
	}

	// Disable auto-install/auto-load to prevent hangs in restricted network
	// environments. No extensions are required for aggregate queries.
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:   conn,
		cfg:    cfg,
		engine: engine,
	}

	db.configureConnectionPool()

	if err := db.createSchema(context.Background()); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// configureConnectionPool tunes the sql.DB pool. DuckDB is in-process, so
// connections are cheap; the cap just bounds concurrent query memory.
func (db *DB) configureConnectionPool() {
	maxConns := db.engine.MaxConcurrentQueries * 2
	if maxConns < 4 {
		maxConns = 4
	}
	db.conn.SetMaxOpenConns(maxConns)
	db.conn.SetMaxIdleConns(maxConns / 2)
	db.conn.SetConnMaxLifetime(time.Hour)
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Ping checks if the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// RetentionHorizonDays returns the configured maximum retention day offset.
func (db *DB) RetentionHorizonDays() int {
	return db.engine.RetentionHorizonDays
}

// ChurnGraceDays returns the configured churn grace window in days.
func (db *DB) ChurnGraceDays() int {
	return db.engine.ChurnGraceDays
}

// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

// Package config provides centralized configuration management for the
// Playlytics metrics engine.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Config is immutable after Load() and safe for concurrent read access.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	API      APIConfig      `koanf:"api"`
	Cache    CacheConfig    `koanf:"cache"`
	Engine   EngineConfig   `koanf:"engine"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the listen address (default 0.0.0.0).
	Host string `koanf:"host"`

	// Port is the listen port (default 8460).
	Port int `koanf:"port"`

	// Timeout bounds request read/write and per-request handling.
	Timeout time.Duration `koanf:"timeout"`

	// CORSOrigins lists allowed CORS origins ("*" allows all).
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs is the allowed requests per RateLimitWindow per client IP.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit accounting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file, or ":memory:" for an in-process store.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory usage (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`

	// SeedMockData populates the store with deterministic sample telemetry
	// on startup. Development/testing only.
	SeedMockData bool `koanf:"seed_mock_data"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	// DefaultRangeDays is the query range applied when the caller omits
	// start/end dates (the range ends today, inclusive).
	DefaultRangeDays int `koanf:"default_range_days"`
}

// CacheConfig holds the analytics result cache settings.
type CacheConfig struct {
	// TTL is how long a computed metrics document stays cached.
	TTL time.Duration `koanf:"ttl"`

	// MaxEntries bounds the number of cached documents. Oldest-expiring
	// entries are dropped once the bound is reached.
	MaxEntries int `koanf:"max_entries"`
}

// EngineConfig holds metric computation parameters.
type EngineConfig struct {
	// RetentionHorizonDays is the maximum day offset tracked per cohort.
	RetentionHorizonDays int `koanf:"retention_horizon_days"`

	// ChurnGraceDays is the trailing window with no activity after which an
	// actor counts as churned for a given activity day. Fixed regardless of
	// query range length.
	ChurnGraceDays int `koanf:"churn_grace_days"`

	// MaxConcurrentQueries bounds parallel aggregate queries per request.
	MaxConcurrentQueries int `koanf:"max_concurrent_queries"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid or inconsistent values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.API.DefaultRangeDays < 1 {
		return fmt.Errorf("api.default_range_days must be at least 1, got %d", c.API.DefaultRangeDays)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be at least 1, got %d", c.Cache.MaxEntries)
	}
	if c.Engine.RetentionHorizonDays < 1 {
		return fmt.Errorf("engine.retention_horizon_days must be at least 1, got %d", c.Engine.RetentionHorizonDays)
	}
	if c.Engine.RetentionHorizonDays > 64 {
		// Day-offset activity sets are uint64 bitmasks.
		return fmt.Errorf("engine.retention_horizon_days must not exceed 64, got %d", c.Engine.RetentionHorizonDays)
	}
	if c.Engine.ChurnGraceDays < 1 {
		return fmt.Errorf("engine.churn_grace_days must be at least 1, got %d", c.Engine.ChurnGraceDays)
	}
	if c.Engine.MaxConcurrentQueries < 1 {
		return fmt.Errorf("engine.max_concurrent_queries must be at least 1, got %d", c.Engine.MaxConcurrentQueries)
	}
	return nil
}

// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/playlytics/internal/logging"
)

// seedRandSeed fixes the generator so repeated seeds produce identical data.
const seedRandSeed = 8460

var (
	seedCountries = []string{"US", "DE", "JP", "BR", "GB"}
	seedPlatforms = []string{"ios", "android", "steam"}
	seedDevices   = []string{"iPhone15,2", "Pixel 8", "SM-G991B", "PC"}
	seedVersions  = []string{"1.0.0", "1.1.0", "1.2.0"}
	seedProducts  = []struct {
		id    string
		ptype string
		cents int64
	}{
		{"starter_pack", "bundle", 499},
		{"gem_pile", "currency", 199},
		{"gem_chest", "currency", 999},
		{"season_pass", "subscription", 1499},
	}
	seedEventNames = []string{
		"level_1_start", "level_1_complete",
		"level_2_start", "level_2_complete",
		"level_3_start", "level_3_complete",
	}
)

// Seed populates the store with deterministic mock telemetry for one game.
// Intended for development and tests only; it skips seeding when the
// sessions table already has rows for the game.
func (db *DB) Seed(ctx context.Context, gameID string, players int, days int) error {
	var existing int64
	err := db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE game_id = ?", gameID).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if existing > 0 {
		logging.Debug().Str("game_id", gameID).Int64("sessions", existing).Msg("Seed skipped, data present")
		return nil
	}

	rng := rand.New(rand.NewSource(seedRandSeed))
	now := time.Now().UTC().Truncate(day)
	epoch := now.Add(-time.Duration(days) * day)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for p := 0; p < players; p++ {
		playerID := uuid.NewString()

		// Stagger player arrival across the first two thirds of the window.
		firstDay := rng.Intn(days*2/3 + 1)
		firstAt := epoch.Add(time.Duration(firstDay) * day).
			Add(time.Duration(rng.Intn(86400)) * time.Second)

		// Activity decays with player age; later days are less likely.
		lastAt := firstAt
		sessionCount := 0
		var playtime int64

		for d := firstDay; d < days; d++ {
			chance := 1.0 / (1.0 + float64(d-firstDay)/4.0)
			if d > firstDay && rng.Float64() > chance {
				continue
			}

			startedAt := epoch.Add(time.Duration(d) * day).
				Add(time.Duration(rng.Intn(86400)) * time.Second)
			if startedAt.Before(firstAt) {
				startedAt = firstAt
			}
			duration := int64(120 + rng.Intn(3000))
			endedAt := startedAt.Add(time.Duration(duration) * time.Second)
			version := seedVersions[rng.Intn(len(seedVersions))]
			sessionID := uuid.NewString()

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO sessions (id, game_id, player_id, started_at, ended_at, duration_seconds, game_version)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				sessionID, gameID, playerID, startedAt, endedAt, duration, version); err != nil {
				return fmt.Errorf("seed session: %w", err)
			}

			if err := seedSessionEvents(ctx, tx, rng, gameID, playerID, sessionID, startedAt); err != nil {
				return err
			}

			// Roughly one player in ten buys something in a session.
			if rng.Intn(10) == 0 {
				product := seedProducts[rng.Intn(len(seedProducts))]
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO transactions (id, external_txn_id, game_id, player_id, product_id, product_type, amount_cents, currency, occurred_at)
					 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
					uuid.NewString(), uuid.NewString(), gameID, playerID,
					product.id, product.ptype, product.cents, "USD",
					startedAt.Add(time.Duration(rng.Intn(int(duration)))*time.Second)); err != nil {
					return fmt.Errorf("seed transaction: %w", err)
				}
			}

			sessionCount++
			playtime += duration
			if endedAt.After(lastAt) {
				lastAt = endedAt
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO players (id, game_id, external_id, first_seen_at, last_seen_at, session_count, playtime_seconds)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			playerID, gameID, fmt.Sprintf("ext-%04d", p), firstAt, lastAt, sessionCount, playtime); err != nil {
			return fmt.Errorf("seed player: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO devices (player_id, country, platform, device_model) VALUES (?, ?, ?, ?)`,
			playerID,
			seedCountries[rng.Intn(len(seedCountries))],
			seedPlatforms[rng.Intn(len(seedPlatforms))],
			seedDevices[rng.Intn(len(seedDevices))]); err != nil {
			return fmt.Errorf("seed device: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed transaction: %w", err)
	}

	logging.Info().Str("game_id", gameID).Int("players", players).Int("days", days).Msg("Seeded mock telemetry")
	return nil
}

// seedSessionEvents writes a handful of progression events for a session,
// with the occasional crash or error.
func seedSessionEvents(ctx context.Context, tx txExecer, rng *rand.Rand, gameID, playerID, sessionID string, startedAt time.Time) error {
	eventCount := 1 + rng.Intn(4)
	for i := 0; i < eventCount; i++ {
		name := seedEventNames[rng.Intn(len(seedEventNames))]
		eventType := "progression"
		switch rng.Intn(25) {
		case 0:
			name, eventType = "client_crash", "crash"
		case 1:
			name, eventType = "asset_load_failed", "error"
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, session_id, game_id, player_id, name, event_type, occurred_at, params)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), sessionID, gameID, playerID, name, eventType,
			startedAt.Add(time.Duration(i*30)*time.Second), "{}"); err != nil {
			return fmt.Errorf("seed event: %w", err)
		}
	}
	return nil
}

// txExecer is the subset of sql.Tx the seeder needs.
type txExecer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

// Command server runs the Playlytics metrics engine: a read-side HTTP
// service that turns raw game telemetry stored in DuckDB into dashboard
// metric documents.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/playlytics/internal/api"
	"github.com/tomtom215/playlytics/internal/cache"
	"github.com/tomtom215/playlytics/internal/config"
	"github.com/tomtom215/playlytics/internal/database"
	"github.com/tomtom215/playlytics/internal/logging"
)

const shutdownTimeout = 15 * time.Second

// seed parameters for local development when database.seed_mock_data is set.
const (
	seedGameID  = "demo-game"
	seedPlayers = 200
	seedDays    = 45
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Int("port", cfg.Server.Port).
		Msg("Starting Playlytics metrics engine")

	db, err := database.New(&cfg.Database, cfg.Engine)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	if cfg.Database.SeedMockData {
		seedCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := db.Seed(seedCtx, seedGameID, seedPlayers, seedDays)
		cancel()
		if err != nil {
			return fmt.Errorf("seed mock data: %w", err)
		}
	}

	resultCache := cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	defer resultCache.Close()

	handler := api.NewHandler(db, resultCache, cfg)
	router := api.NewRouter(handler, &cfg.Server)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	logging.Info().Msg("Server stopped")
	return nil
}

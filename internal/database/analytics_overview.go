// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/playlytics/internal/models"
)

// GetOverviewAnalytics computes the headline dashboard card: key totals for
// the requested period compared against the preceding period of equal
// length, plus rolling activity anchored to now.
func (db *DB) GetOverviewAnalytics(ctx context.Context, f Filter) (*models.OverviewAnalytics, error) {
	current := f.Range
	previous := current.Previous()

	cur, err := db.aggregateWindow(ctx, f, current, "current")
	if err != nil {
		return nil, fmt.Errorf("current period: %w", err)
	}
	prev, err := db.aggregateWindow(ctx, f, previous, "previous")
	if err != nil {
		return nil, fmt.Errorf("previous period: %w", err)
	}

	rolling, err := db.rollingActivity(ctx, f, time.Now())
	if err != nil {
		return nil, fmt.Errorf("rolling activity: %w", err)
	}

	return &models.OverviewAnalytics{
		Period:        current.Window(),
		Previous:      previous.Window(),
		ActivePlayers: compare(float64(cur.ActivePlayers), float64(prev.ActivePlayers)),
		Sessions:      compare(float64(cur.Sessions), float64(prev.Sessions)),
		NewPlayers:    compare(float64(cur.NewPlayers), float64(prev.NewPlayers)),
		PlaytimeHours: compare(float64(cur.PlaytimeSeconds)/3600, float64(prev.PlaytimeSeconds)/3600),
		Revenue:       compare(float64(cur.RevenueCents), float64(prev.RevenueCents)),
		Rolling:       rolling,
	}, nil
}

// rollingActivity counts distinct active players over the today, trailing-7,
// and trailing-30 windows anchored to now. These windows ignore the
// requested period entirely.
func (db *DB) rollingActivity(ctx context.Context, f Filter, now time.Time) (models.RollingActivity, error) {
	windows := RollingWindowsAt(now)

	dau, err := db.countActivePlayers(ctx, f, windows.Today)
	if err != nil {
		return models.RollingActivity{}, err
	}
	wau, err := db.countActivePlayers(ctx, f, windows.Week)
	if err != nil {
		return models.RollingActivity{}, err
	}
	mau, err := db.countActivePlayers(ctx, f, windows.Month)
	if err != nil {
		return models.RollingActivity{}, err
	}

	return models.RollingActivity{
		DAU:        dau,
		WAU:        wau,
		MAU:        mau,
		Stickiness: roundPct(ratio(float64(dau), float64(mau)) * 100),
	}, nil
}

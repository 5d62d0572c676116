// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/playlytics/internal/models"
)

// GetMonetizationAnalytics computes revenue and spending behavior for the
// requested period compared against the preceding period. ARPU and
// conversion use the period's distinct active players as denominator.
func (db *DB) GetMonetizationAnalytics(ctx context.Context, f Filter) (*models.MonetizationAnalytics, error) {
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

	byType, err := db.revenueByProductType(ctx, f, current)
	if err != nil {
		return nil, fmt.Errorf("revenue by product type: %w", err)
	}

	return &models.MonetizationAnalytics{
		Period:        current.Window(),
		Previous:      previous.Window(),
		RevenueCents:  compare(float64(cur.RevenueCents), float64(prev.RevenueCents)),
		Transactions:  compare(float64(cur.Transactions), float64(prev.Transactions)),
		PayingPlayers: compare(float64(cur.PayingPlayers), float64(prev.PayingPlayers)),
		ARPU: compare(
			ratio(float64(cur.RevenueCents), float64(cur.ActivePlayers)),
			ratio(float64(prev.RevenueCents), float64(prev.ActivePlayers)),
		),
		ARPPU: compare(
			ratio(float64(cur.RevenueCents), float64(cur.PayingPlayers)),
			ratio(float64(prev.RevenueCents), float64(prev.PayingPlayers)),
		),
		ConversionRate: compare(
			roundPct(ratio(float64(cur.PayingPlayers), float64(cur.ActivePlayers))*100),
			roundPct(ratio(float64(prev.PayingPlayers), float64(prev.ActivePlayers))*100),
		),
		ByProductType: byType,
	}, nil
}

// revenueByProductType breaks current-period revenue down by product type,
// highest revenue first.
func (db *DB) revenueByProductType(ctx context.Context, f Filter, rng TimeRange) ([]models.ProductTypeRevenue, error) {
	start := time.Now()

	where, args := f.WhereTransactions(rng).Build()
	query := fmt.Sprintf(`
		SELECT
			t.product_type,
			COALESCE(SUM(t.amount_cents), 0),
			COUNT(*),
			COUNT(DISTINCT t.player_id)
		FROM transactions t
		WHERE %s
		GROUP BY t.product_type
		ORDER BY SUM(t.amount_cents) DESC`, where)

	byType := []models.ProductTypeRevenue{}
	err := db.queryAndScan(ctx, query, args, func(rows *sql.Rows) error {
		var entry models.ProductTypeRevenue
		if err := rows.Scan(&entry.ProductType, &entry.RevenueCents, &entry.Transactions, &entry.Players); err != nil {
			return err
		}
		byType = append(byType, entry)
		return nil
	})
	recordQuery("monetization_by_type", "current", start, err)
	if err != nil {
		return nil, err
	}
	return byType, nil
}

// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package models

// MonetizationAnalytics reports revenue and spending behavior over the
// requested period, compared against the preceding period of equal length.
// All monetary values are integer cents summed across currencies as stored.
type MonetizationAnalytics struct {
	Period   PeriodWindow `json:"period"`
	Previous PeriodWindow `json:"previous_period"`

	// RevenueCents is the summed transaction amount.
	RevenueCents Comparison `json:"revenue_cents"`

	// Transactions is the count of transactions in the period.
	Transactions Comparison `json:"transactions"`

	// PayingPlayers is the count of distinct players with at least one
	// transaction in the period.
	PayingPlayers Comparison `json:"paying_players"`

	// ARPU is RevenueCents / active players, or 0 when no players.
	ARPU Comparison `json:"arpu_cents"`

	// ARPPU is RevenueCents / PayingPlayers, or 0 when no paying players.
	ARPPU Comparison `json:"arppu_cents"`

	// ConversionRate is PayingPlayers / active players * 100, or 0.
	ConversionRate Comparison `json:"conversion_rate"`

	// ByProductType breaks current-period revenue down by product type,
	// highest revenue first.
	ByProductType []ProductTypeRevenue `json:"by_product_type"`
}

// ProductTypeRevenue is the revenue contribution of one product type.
type ProductTypeRevenue struct {
	ProductType  string `json:"product_type"`
	RevenueCents int64  `json:"revenue_cents"`
	Transactions int64  `json:"transactions"`
	Players      int64  `json:"players"`
}

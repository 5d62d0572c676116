// Playlytics - Game Telemetry Metrics & Cohort Retention Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playlytics

package database

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/playlytics/internal/logging"
	"github.com/tomtom215/playlytics/internal/metrics"
	"github.com/tomtom215/playlytics/internal/models"
)

// AggregationFailed is the error code carried by a degraded section.
const AggregationFailed = "AGGREGATION_FAILED"

// sectionJob is one metric family computation in the dashboard fan-out.
type sectionJob struct {
	name    string
	compute func(context.Context, Filter) (interface{}, error)
	assign  func(*models.DashboardAnalytics, models.MetricSection)
}

// GetDashboardAnalytics assembles the combined document. Every section runs
// independently on a bounded worker pool; a failed or cancelled section is
// marked degraded while the rest of the document still returns. The
// document itself never fails once the filter was valid.
func (db *DB) GetDashboardAnalytics(ctx context.Context, f Filter) *models.DashboardAnalytics {
	current := f.Range
	doc := &models.DashboardAnalytics{
		GameID:   f.GameID,
		Period:   current.Window(),
		Previous: current.Previous().Window(),
	}

	jobs := []sectionJob{
		{"overview",
			func(ctx context.Context, f Filter) (interface{}, error) { return db.GetOverviewAnalytics(ctx, f) },
			func(d *models.DashboardAnalytics, s models.MetricSection) { d.Overview = s }},
		{"engagement",
			func(ctx context.Context, f Filter) (interface{}, error) { return db.GetEngagementAnalytics(ctx, f) },
			func(d *models.DashboardAnalytics, s models.MetricSection) { d.Engagement = s }},
		{"retention",
			func(ctx context.Context, f Filter) (interface{}, error) { return db.GetRetentionAnalytics(ctx, f) },
			func(d *models.DashboardAnalytics, s models.MetricSection) { d.Retention = s }},
		{"churn",
			func(ctx context.Context, f Filter) (interface{}, error) { return db.GetChurnAnalytics(ctx, f) },
			func(d *models.DashboardAnalytics, s models.MetricSection) { d.Churn = s }},
		{"monetization",
			func(ctx context.Context, f Filter) (interface{}, error) { return db.GetMonetizationAnalytics(ctx, f) },
			func(d *models.DashboardAnalytics, s models.MetricSection) { d.Monetization = s }},
		{"progression",
			func(ctx context.Context, f Filter) (interface{}, error) { return db.GetProgressionAnalytics(ctx, f) },
			func(d *models.DashboardAnalytics, s models.MetricSection) { d.Progression = s }},
		{"performance",
			func(ctx context.Context, f Filter) (interface{}, error) { return db.GetPerformanceAnalytics(ctx, f) },
			func(d *models.DashboardAnalytics, s models.MetricSection) { d.Performance = s }},
	}

	poolSize := db.engine.MaxConcurrentQueries
	if poolSize < 1 {
		poolSize = 1
	}
	sem := make(chan struct{}, poolSize)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, job := range jobs {
		wg.Add(1)
		go func(job sectionJob) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				// Cancelled before the job could even start.
				mu.Lock()
				job.assign(doc, models.DegradedSection(AggregationFailed))
				doc.Partial = true
				mu.Unlock()
				metrics.RecordDegradedSection(job.name)
				return
			}

			section := db.computeSection(ctx, job, f)

			mu.Lock()
			job.assign(doc, section)
			if section.Degraded {
				doc.Partial = true
			}
			mu.Unlock()
		}(job)
	}

	wg.Wait()
	doc.GeneratedAt = time.Now().UTC()
	return doc
}

// computeSection runs one metric family and folds any failure into a
// degraded section instead of propagating it.
func (db *DB) computeSection(ctx context.Context, job sectionJob, f Filter) models.MetricSection {
	data, err := job.compute(ctx, f)
	if err != nil {
		logging.Ctx(ctx).Error().
			Err(err).
			Str("section", job.name).
			Str("game_id", f.GameID).
			Msg("Metric section computation failed")
		metrics.RecordDegradedSection(job.name)
		return models.DegradedSection(AggregationFailed)
	}
	return models.OKSection(data)
}

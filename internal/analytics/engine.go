// Package analytics computes per-model race-day performance from
// races, entries, and resolved finishing positions.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/racedash/internal/cache"
	"github.com/yourusername/racedash/internal/metrics"
	"github.com/yourusername/racedash/internal/models"
	"github.com/yourusername/racedash/internal/raceclock"
	"github.com/yourusername/racedash/internal/repository"
	"github.com/yourusername/racedash/internal/resultsource"
)

// Engine recomputes the full per-model performance set for a race day.
// Every refresh starts from scratch: the summary is a pure function of
// the day's races, entries, and whatever the result sources know right
// now.
type Engine struct {
	repos     *repository.Repositories
	resolver  *resultsource.Resolver
	snapshots *cache.SnapshotCache
	clock     raceclock.Clock
	specs     []models.ModelSpec
	logger    *logrus.Logger
}

// NewEngine creates a dashboard engine.
func NewEngine(
	repos *repository.Repositories,
	resolver *resultsource.Resolver,
	snapshots *cache.SnapshotCache,
	clock raceclock.Clock,
	specs []models.ModelSpec,
	logger *logrus.Logger,
) (*Engine, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("result resolver is required")
	}
	if clock == nil {
		return nil, fmt.Errorf("clock is required")
	}
	if len(specs) == 0 {
		return nil, models.ErrNoModels
	}

	return &Engine{
		repos:     repos,
		resolver:  resolver,
		snapshots: snapshots,
		clock:     clock,
		specs:     specs,
		logger:    logger,
	}, nil
}

// Models returns the configured model set.
func (e *Engine) Models() []models.ModelSpec {
	return e.specs
}

// RefreshToday recomputes performance for the clock's current date.
func (e *Engine) RefreshToday(ctx context.Context) ([]*models.ModelPerformance, error) {
	return e.Refresh(ctx, e.clock.Today())
}

// Refresh recomputes the performance summary for every configured
// model on the given date. Fetches are awaited to completion before
// aggregation begins; there is no partial or streaming aggregation.
func (e *Engine) Refresh(ctx context.Context, date string) ([]*models.ModelPerformance, error) {
	start := time.Now()
	log := e.logger.WithFields(logrus.Fields{
		"refresh_id": uuid.New().String(),
		"date":       date,
	})
	log.Info("Refreshing model performance")

	races, err := e.repos.Race.GetByDate(ctx, date)
	if err != nil {
		metrics.RecordRefreshFailure()
		return nil, fmt.Errorf("failed to fetch races: %w", err)
	}
	if races == nil {
		races = []*models.Race{}
	}

	raceIDs := make([]string, 0, len(races))
	for _, race := range races {
		raceIDs = append(raceIDs, race.ID)
	}

	entriesByRace, err := e.repos.Entry.GetByRaceIDs(ctx, raceIDs)
	if err != nil {
		metrics.RecordRefreshFailure()
		return nil, fmt.Errorf("failed to fetch entries: %w", err)
	}

	results := e.resolver.Resolve(ctx, raceIDs)
	metrics.RecordSourceResolution(results.Source)

	nowMinutes := e.clock.Minutes()
	performances := make([]*models.ModelPerformance, 0, len(e.specs))

	for _, spec := range e.specs {
		perf, err := Aggregate(races, entriesByRace, results, spec)
		if err != nil {
			metrics.RecordRefreshFailure()
			return nil, fmt.Errorf("failed to aggregate model %s: %w", spec.Name, err)
		}
		perf.Date = date
		perf.NextRunner = NextPick(races, entriesByRace, results, spec, nowMinutes)
		perf.LastUpdated = e.clock.Now()

		if e.snapshots != nil {
			e.snapshots.Set(cache.SnapshotKey{Model: spec.Name, Date: date}, perf)
		}
		metrics.UpdateModelGauges(spec.Name, perf.CompletedRaces, perf.WinRate)

		performances = append(performances, perf)
	}

	metrics.RecordRefresh(time.Since(start).Seconds())
	log.WithFields(logrus.Fields{
		"total_races":     len(races),
		"completed_races": results.CompletedRaces(),
		"results_source":  results.Source,
		"models":          len(performances),
	}).Info("Model performance refresh complete")

	return performances, nil
}

// Snapshot serves the cached summary for one model and date, or nil
// when no refresh has run since the cache TTL.
func (e *Engine) Snapshot(model, date string) *models.ModelPerformance {
	if e.snapshots == nil {
		return nil
	}
	return e.snapshots.Get(cache.SnapshotKey{Model: model, Date: date})
}

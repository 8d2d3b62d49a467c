package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	sharedretry "github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/quake-trends/internal/domain"
	"github.com/couchcryptid/quake-trends/internal/observability"
)

const (
	defaultInitialBackoff = 200 * time.Millisecond
	defaultMaxBackoff     = 5 * time.Second
)

// Fetcher returns every event matching a query.
type Fetcher interface {
	Fetch(ctx context.Context, q domain.Query) ([]domain.Quake, error)
}

// Pipeline fetches events for a fixed query and aggregates them into a
// report.
type Pipeline struct {
	fetcher Fetcher
	query   domain.Query
	logger  *slog.Logger
	metrics *observability.Metrics

	latest atomic.Pointer[domain.Report]

	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// New creates a Pipeline for query backed by fetcher.
func New(fetcher Fetcher, query domain.Query, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:        fetcher,
		query:          query,
		logger:         logger,
		metrics:        metrics,
		initialBackoff: defaultInitialBackoff,
		maxBackoff:     defaultMaxBackoff,
	}
}

// Run fetches the events once and aggregates them. It returns
// domain.ErrNoEvents when the query matches nothing.
func (p *Pipeline) Run(ctx context.Context) (domain.Report, error) {
	start := time.Now()

	quakes, err := p.fetcher.Fetch(ctx, p.query)
	if err != nil {
		return domain.Report{}, fmt.Errorf("fetch quakes: %w", err)
	}

	report, err := domain.BuildReport(quakes)
	if err != nil {
		return domain.Report{}, fmt.Errorf("aggregate quakes: %w", err)
	}

	if report.Summary.Missing > 0 {
		p.logger.Debug("skipped events without magnitude", "count", report.Summary.Missing)
	}
	p.metrics.MagnitudesMissing.Add(float64(report.Summary.Missing))
	p.metrics.YearsAggregated.Set(float64(len(report.Summary.Years)))

	p.logger.Info("report built",
		"events", report.Summary.Total,
		"years", len(report.Summary.Years),
		"missing_magnitude", report.Summary.Missing,
		"duration", time.Since(start),
	)
	return report, nil
}

// Refresh runs the pipeline until it succeeds, backing off exponentially
// between failed attempts, and stores the result for Latest. It returns nil
// if ctx is cancelled first. An empty result is not retried.
func (p *Pipeline) Refresh(ctx context.Context) error {
	backoff := p.initialBackoff

	for {
		report, err := p.Run(ctx)
		if err == nil {
			p.store(report)
			return nil
		}
		if ctx.Err() != nil {
			p.logger.Info("refresh stopping", "reason", ctx.Err())
			return nil
		}
		if errors.Is(err, domain.ErrNoEvents) {
			return err
		}

		p.logger.Error("refresh failed, retrying", "error", err, "backoff", backoff)
		if !sharedretry.SleepWithContext(ctx, backoff) {
			p.logger.Info("refresh stopping", "reason", ctx.Err())
			return nil
		}
		backoff = sharedretry.NextBackoff(backoff, p.maxBackoff)
	}
}

// Latest returns the most recently stored report.
func (p *Pipeline) Latest() (domain.Report, bool) {
	report := p.latest.Load()
	if report == nil {
		return domain.Report{}, false
	}
	return *report, true
}

// CheckReadiness returns nil once a report has been stored.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.latest.Load() == nil {
		return errors.New("no earthquake report loaded yet")
	}
	return nil
}

func (p *Pipeline) store(report domain.Report) {
	p.latest.Store(&report)
	p.metrics.ReportLoaded.Set(1)
}

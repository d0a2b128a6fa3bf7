package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/couchcryptid/lightning-stats/internal/domain"
	"github.com/couchcryptid/lightning-stats/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// YearSource opens the strike log for one year.
type YearSource interface {
	Open(ctx context.Context, year int) (io.ReadCloser, error)
}

// YearAggregator reduces one year's log to a summary.
type YearAggregator interface {
	Aggregate(ctx context.Context, year string, r io.Reader, square domain.BoundingSquare) (domain.YearSummary, error)
}

// SummaryLoader delivers a year summary to an output.
type SummaryLoader interface {
	Name() string
	LoadSummary(ctx context.Context, summary domain.YearSummary) error
}

// Options configures a run.
type Options struct {
	Square domain.BoundingSquare

	// Years are processed over [YearStart, YearEnd).
	YearStart int
	YearEnd   int

	// Workers > 1 aggregates years concurrently. Output order is unchanged.
	Workers int

	// Clock defaults to the real clock.
	Clock clockwork.Clock
}

// Driver runs the per-year aggregation over a range of years and hands every
// non-empty summary to the loaders.
type Driver struct {
	source     YearSource
	aggregator YearAggregator
	loaders    []SummaryLoader
	opts       Options
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool

	running   atomic.Bool
	processed atomic.Int64
	lastYear  atomic.Value // string
}

// New creates a Driver with the given stages and observability.
func New(s YearSource, a YearAggregator, loaders []SummaryLoader, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Driver {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Driver{
		source:     s,
		aggregator: a,
		loaders:    loaders,
		opts:       opts,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil once at least one year has been aggregated.
func (d *Driver) CheckReadiness(_ context.Context) error {
	if !d.ready.Load() {
		return errors.New("no year has been processed yet")
	}
	return nil
}

// Status reports the progress of the current or last run.
func (d *Driver) Status() domain.RunStatus {
	last, _ := d.lastYear.Load().(string)
	return domain.RunStatus{
		Running:        d.running.Load(),
		YearStart:      d.opts.YearStart,
		YearEnd:        d.opts.YearEnd,
		YearsProcessed: d.processed.Load(),
		LastYear:       last,
	}
}

// Run processes every configured year. Open, read and parse failures abort
// the run; loader failures are logged and the run continues.
func (d *Driver) Run(ctx context.Context) error {
	start := d.clock.Now()
	d.logger.Info("run started",
		"center", d.opts.Square.Center.String(),
		"area_km2", d.opts.Square.AreaKm2,
		"year_start", d.opts.YearStart,
		"year_end", d.opts.YearEnd,
		"workers", d.opts.Workers,
	)
	d.metrics.RunRunning.Set(1)
	d.running.Store(true)
	defer func() {
		d.metrics.RunRunning.Set(0)
		d.running.Store(false)
	}()

	var err error
	if d.opts.Workers > 1 {
		err = d.runConcurrent(ctx)
	} else {
		err = d.runSequential(ctx)
	}
	if err != nil {
		return err
	}

	d.logger.Info("run complete", "elapsed", d.clock.Since(start).String())
	return nil
}

func (d *Driver) runSequential(ctx context.Context) error {
	for year := d.opts.YearStart; year < d.opts.YearEnd; year++ {
		summary, err := d.processYear(ctx, year)
		if err != nil {
			return err
		}
		d.emit(ctx, summary)
	}
	return nil
}

type yearResult struct {
	summary domain.YearSummary
	err     error
}

// runConcurrent aggregates years in parallel, then emits in year order up to
// the first failed year so the output matches a sequential run.
func (d *Driver) runConcurrent(ctx context.Context) error {
	n := d.opts.YearEnd - d.opts.YearStart
	if n <= 0 {
		return nil
	}
	results := make([]yearResult, n)

	var g errgroup.Group
	g.SetLimit(d.opts.Workers)
	for i := range n {
		g.Go(func() error {
			summary, err := d.processYear(ctx, d.opts.YearStart+i)
			results[i] = yearResult{summary: summary, err: err}
			return err
		})
	}
	// Errors are reported in year order below, not completion order.
	_ = g.Wait()

	for _, r := range results {
		if r.err != nil {
			return r.err
		}
		d.emit(ctx, r.summary)
	}
	return nil
}

func (d *Driver) processYear(ctx context.Context, year int) (domain.YearSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.YearSummary{}, err
	}
	d.logger.Info("processing year", "year", year)
	start := d.clock.Now()

	rc, err := d.source.Open(ctx, year)
	if err != nil {
		return domain.YearSummary{}, fmt.Errorf("open year %d: %w", year, err)
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			d.logger.Warn("close year log failed", "year", year, "error", cerr)
		}
	}()

	summary, err := d.aggregator.Aggregate(ctx, strconv.Itoa(year), rc, d.opts.Square)
	if err != nil {
		return domain.YearSummary{}, err
	}

	d.metrics.YearProcessingDuration.Observe(d.clock.Since(start).Seconds())
	d.metrics.YearsProcessed.Inc()
	if summary.Empty() {
		d.metrics.YearsEmpty.Inc()
	}
	d.processed.Add(1)
	d.lastYear.Store(summary.Year)
	d.ready.Store(true)
	return summary, nil
}

// emit hands a non-empty summary to every loader.
func (d *Driver) emit(ctx context.Context, summary domain.YearSummary) {
	if summary.Empty() {
		d.logger.Info("no strikes inside square", "year", summary.Year)
		return
	}

	d.logger.Info("year summary",
		"year", summary.Year,
		"strikes", summary.Strikes,
		"strikes_per_area", summary.StrikesPerArea(),
		"days", summary.Days,
	)
	for _, l := range d.loaders {
		if err := l.LoadSummary(ctx, summary); err != nil {
			d.logger.Warn("write summary failed", "sink", l.Name(), "year", summary.Year, "error", err)
			d.metrics.SummaryWriteErrors.WithLabelValues(l.Name()).Inc()
			continue
		}
		d.metrics.SummariesWritten.WithLabelValues(l.Name()).Inc()
	}
}

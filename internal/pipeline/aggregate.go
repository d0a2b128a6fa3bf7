package pipeline

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/couchcryptid/lightning-stats/internal/domain"
	"github.com/couchcryptid/lightning-stats/internal/observability"
)

const (
	maxLineBytes = 1 << 20

	// ctxCheckInterval is how many lines are read between cancellation checks.
	ctxCheckInterval = 4096
)

// StrikeAggregator implements YearAggregator by parsing every line with a
// record layout and folding accepted strikes into a domain.Tally.
type StrikeAggregator struct {
	layout  domain.RecordLayout
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewAggregator creates a StrikeAggregator for the given record layout.
func NewAggregator(layout domain.RecordLayout, logger *slog.Logger, metrics *observability.Metrics) *StrikeAggregator {
	return &StrikeAggregator{
		layout:  layout,
		logger:  logger,
		metrics: metrics,
	}
}

// Aggregate streams r line by line. The first malformed line or read error
// aborts the year; nothing is skipped.
func (a *StrikeAggregator) Aggregate(ctx context.Context, year string, r io.Reader, square domain.BoundingSquare) (domain.YearSummary, error) {
	tally := domain.NewTally(year, square)

	var lineNo, parsed, accepted int
	defer func() {
		a.metrics.LinesRead.Add(float64(lineNo))
		a.metrics.EventsAccepted.Add(float64(accepted))
		a.metrics.EventsRejected.Add(float64(parsed - accepted))
	}()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		lineNo++
		if lineNo%ctxCheckInterval == 0 && ctx.Err() != nil {
			return domain.YearSummary{}, ctx.Err()
		}

		event, err := a.layout.Parse(scanner.Text())
		if err != nil {
			a.reportParseError(year, lineNo, err)
			return domain.YearSummary{}, fmt.Errorf("year %s line %d: %w", year, lineNo, err)
		}
		parsed++
		if tally.Add(event) {
			accepted++
		}
	}
	if err := scanner.Err(); err != nil {
		return domain.YearSummary{}, fmt.Errorf("read year %s: %w", year, err)
	}

	return tally.Summary(), nil
}

func (a *StrikeAggregator) reportParseError(year string, line int, err error) {
	kind := "other"
	switch {
	case errors.Is(err, domain.ErrTooFewFields):
		kind = "too_few_fields"
	case errors.Is(err, domain.ErrNumericFormat):
		kind = "numeric_format"
	}
	a.metrics.ParseErrors.WithLabelValues(kind).Inc()

	var perr *domain.ParseError
	if errors.As(err, &perr) {
		a.logger.Error("malformed strike record",
			"year", year,
			"line", line,
			"kind", kind,
			"fields", perr.Fields,
		)
	}
}

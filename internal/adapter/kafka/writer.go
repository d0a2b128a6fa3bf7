package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/lightning-stats/internal/config"
	"github.com/couchcryptid/lightning-stats/internal/domain"
	"github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker"
)

// SinkName labels the Kafka sink in logs and metrics.
const SinkName = "kafka"

// ErrCircuitOpen is returned while the breaker is rejecting publishes.
var ErrCircuitOpen = errors.New("kafka circuit breaker open")

const (
	publishAttempts   = 3
	initialBackoff    = 250 * time.Millisecond
	maxPublishBackoff = 2 * time.Second
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes year summaries to a Kafka topic.
// It implements pipeline.SummaryLoader.
type Writer struct {
	writer  messageWriter
	breaker *gobreaker.CircuitBreaker
	square  domain.BoundingSquare
	logger  *slog.Logger

	attempts   int
	backoff    time.Duration
	maxBackoff time.Duration
}

// summaryMessage is the JSON value of a published summary.
type summaryMessage struct {
	Year           string       `json:"year"`
	Strikes        int64        `json:"strikes"`
	StrikesPerArea float32      `json:"strikes_per_area"`
	Days           int          `json:"days"`
	AreaKm2        float32      `json:"area_km2"`
	Center         domain.Point `json:"center"`
}

// NewWriter creates a Kafka producer for the configured summary topic.
func NewWriter(cfg *config.Config, square domain.BoundingSquare, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaSummaryTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return newWriter(w, square, logger)
}

func newWriter(w messageWriter, square domain.BoundingSquare, logger *slog.Logger) *Writer {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "kafka-summaries",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &Writer{
		writer:     w,
		breaker:    cb,
		square:     square,
		logger:     logger,
		attempts:   publishAttempts,
		backoff:    initialBackoff,
		maxBackoff: maxPublishBackoff,
	}
}

// Name identifies the sink.
func (w *Writer) Name() string { return SinkName }

// LoadSummary publishes one summary keyed by year. A publish is retried with
// backoff; the breaker counts one failure per exhausted publish.
func (w *Writer) LoadSummary(ctx context.Context, summary domain.YearSummary) error {
	msg, err := serializeToMessage(summary, w.square)
	if err != nil {
		return err
	}

	_, err = w.breaker.Execute(func() (interface{}, error) {
		return nil, w.publish(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}
	if err != nil {
		return fmt.Errorf("publish summary %s: %w", summary.Year, err)
	}
	return nil
}

func (w *Writer) publish(ctx context.Context, msg kafkago.Message) error {
	backoff := w.backoff
	var err error
	for attempt := 1; attempt <= w.attempts; attempt++ {
		if err = w.writer.WriteMessages(ctx, msg); err == nil {
			return nil
		}
		if attempt == w.attempts {
			break
		}
		w.logger.Debug("kafka publish failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, w.maxBackoff)
	}
	return err
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a YearSummary into a Kafka message.
func serializeToMessage(summary domain.YearSummary, square domain.BoundingSquare) (kafkago.Message, error) {
	data, err := json.Marshal(summaryMessage{
		Year:           summary.Year,
		Strikes:        summary.Strikes,
		StrikesPerArea: summary.StrikesPerArea(),
		Days:           summary.Days,
		AreaKm2:        summary.AreaKm2,
		Center:         square.Center,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize year summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(summary.Year),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "center", Value: []byte(square.Center.String())},
			{Key: "area_km2", Value: []byte(domain.FormatFloat(square.AreaKm2))},
		},
	}, nil
}

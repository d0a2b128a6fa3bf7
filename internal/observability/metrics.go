package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a run.
type Metrics struct {
	LinesRead      prometheus.Counter
	ParseErrors    *prometheus.CounterVec // labels: kind={too_few_fields,numeric_format}
	EventsAccepted prometheus.Counter
	EventsRejected prometheus.Counter
	RunRunning     prometheus.Gauge

	// Per-year metrics.
	YearsProcessed         prometheus.Counter
	YearsEmpty             prometheus.Counter
	YearProcessingDuration prometheus.Histogram

	// Sink metrics.
	SummariesWritten   *prometheus.CounterVec // labels: sink={file,kafka}
	SummaryWriteErrors *prometheus.CounterVec // labels: sink={file,kafka}
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.LinesRead,
		m.ParseErrors,
		m.EventsAccepted,
		m.EventsRejected,
		m.RunRunning,
		m.YearsProcessed,
		m.YearsEmpty,
		m.YearProcessingDuration,
		m.SummariesWritten,
		m.SummaryWriteErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LinesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strike_stats",
			Name:      "lines_read_total",
			Help:      "Total lines read from yearly strike logs.",
		}),
		ParseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strike_stats",
			Name:      "parse_errors_total",
			Help:      "Malformed strike records by kind.",
		}, []string{"kind"}),
		EventsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strike_stats",
			Name:      "events_accepted_total",
			Help:      "Strikes that fell inside the bounding square.",
		}),
		EventsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strike_stats",
			Name:      "events_rejected_total",
			Help:      "Strikes that fell outside the bounding square.",
		}),
		RunRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "strike_stats",
			Name:      "run_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		YearsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strike_stats",
			Name:      "years_processed_total",
			Help:      "Years whose log was fully aggregated.",
		}),
		YearsEmpty: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "strike_stats",
			Name:      "years_empty_total",
			Help:      "Years with no strikes inside the bounding square.",
		}),
		YearProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "strike_stats",
			Name:      "year_processing_duration_seconds",
			Help:      "Duration of aggregating one year's log.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		SummariesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strike_stats",
			Name:      "summaries_written_total",
			Help:      "Year summaries delivered, by sink.",
		}, []string{"sink"}),
		SummaryWriteErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "strike_stats",
			Name:      "summary_write_errors_total",
			Help:      "Failed year summary deliveries, by sink.",
		}, []string{"sink"}),
	}
}

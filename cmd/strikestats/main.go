// Command strikestats computes yearly lightning strike statistics for a
// square region and appends one row per year to an output file named after
// the run parameters.
package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/lightning-stats/internal/adapter/file"
	httpadapter "github.com/couchcryptid/lightning-stats/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/lightning-stats/internal/adapter/kafka"
	"github.com/couchcryptid/lightning-stats/internal/config"
	"github.com/couchcryptid/lightning-stats/internal/domain"
	"github.com/couchcryptid/lightning-stats/internal/observability"
	"github.com/couchcryptid/lightning-stats/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd(observability.NewMetrics).ExecuteContext(ctx)
	stop()
	if err != nil {
		slog.Error("strikestats failed", "error", err)
		os.Exit(1)
	}
}

// newRootCmd builds the CLI. Flags override the environment; anything not
// set on the command line keeps its env or default value.
func newRootCmd(newMetrics func() *observability.Metrics) *cobra.Command {
	var (
		lat, lon, area float32
		from, to       int
		workers        int
		dataDir        string
		outDir         string
		truncate       bool
	)

	cmd := &cobra.Command{
		Use:           "strikestats",
		Short:         "Count lightning strikes per year inside a square region",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("lat") {
				cfg.CenterLat = lat
			}
			if flags.Changed("lon") {
				cfg.CenterLon = lon
			}
			if flags.Changed("area") {
				cfg.AreaKm2 = area
			}
			if flags.Changed("from") {
				cfg.YearStart = from
			}
			if flags.Changed("to") {
				cfg.YearEnd = to
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			if flags.Changed("out-dir") {
				cfg.OutputDir = outDir
			}
			if flags.Changed("truncate") {
				cfg.OutputTruncate = truncate
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
			if err := run(cmd.Context(), cfg, logger, newMetrics()); err != nil {
				logger.Error("run failed", "error", err)
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Float32Var(&lat, "lat", 0, "center latitude in decimal degrees (env CENTER_LAT)")
	f.Float32Var(&lon, "lon", 0, "center longitude in decimal degrees (env CENTER_LON)")
	f.Float32Var(&area, "area", 0, "square area in km² (env AREA_KM2)")
	f.IntVar(&from, "from", 0, "first year, inclusive (env YEAR_START)")
	f.IntVar(&to, "to", 0, "last year, exclusive (env YEAR_END)")
	f.IntVar(&workers, "workers", 1, "years aggregated concurrently (env WORKERS)")
	f.StringVar(&dataDir, "data-dir", "", "directory holding <year>.txt logs (env DATA_DIR)")
	f.StringVar(&outDir, "out-dir", "", "directory for the output file (env OUTPUT_DIR)")
	f.BoolVar(&truncate, "truncate", false, "replace the output file instead of appending (env OUTPUT_TRUNCATE)")

	return cmd
}

// run wires the adapters for one aggregation run and blocks until it ends.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	square := domain.NewBoundingSquare(cfg.CenterLat, cfg.CenterLon, cfg.AreaKm2)

	sink, err := file.OpenSink(cfg.OutputDir, square, cfg.OutputTruncate, logger)
	if err != nil {
		return err
	}
	loaders := []pipeline.SummaryLoader{sink}
	closers := map[string]io.Closer{file.SinkName: sink}

	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, square, logger)
		loaders = append(loaders, writer)
		closers[kafkaadapter.SinkName] = writer
		logger.Info("kafka summary publishing enabled", "topic", cfg.KafkaSummaryTopic, "brokers", cfg.KafkaBrokers)
	}
	defer func() {
		for name, c := range closers {
			if err := c.Close(); err != nil {
				logger.Error("sink close error", "sink", name, "error", err)
			}
		}
	}()

	source := file.NewDirSource(cfg.DataDir, logger)
	aggregator := pipeline.NewAggregator(domain.DefaultLayout, logger, metrics)
	driver := pipeline.New(source, aggregator, loaders, logger, metrics, pipeline.Options{
		Square:    square,
		YearStart: cfg.YearStart,
		YearEnd:   cfg.YearEnd,
		Workers:   cfg.Workers,
	})

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, driver, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	logger.Info("writing summaries", "path", sink.Path())
	return driver.Run(ctx)
}

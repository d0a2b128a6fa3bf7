package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/lightning-stats/internal/domain"
)

// SinkName labels the file sink in logs and metrics.
const SinkName = "file"

// OutputName derives the output file name from the run parameters, e.g.
// "Latitude: 59.93237, Longitude: 10.984623, Areal: 10km2.txt".
func OutputName(square domain.BoundingSquare) string {
	return fmt.Sprintf("Latitude: %s, Longitude: %s, Areal: %skm2.txt",
		domain.FormatFloat(square.Center.Lat),
		domain.FormatFloat(square.Center.Lon),
		domain.FormatFloat(square.AreaKm2),
	)
}

// Sink appends year summary rows to the run's output file.
// It implements pipeline.SummaryLoader.
type Sink struct {
	file   *os.File
	path   string
	logger *slog.Logger
}

// OpenSink opens (creating if needed) the output file for square in dir and
// writes the header row. Existing content is kept unless truncate is set.
// A failed header write is logged and does not fail the open.
func OpenSink(dir string, square domain.BoundingSquare, truncate bool, logger *slog.Logger) (*Sink, error) {
	path := filepath.Join(dir, OutputName(square))

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}

	s := &Sink{file: f, path: path, logger: logger}
	if _, err := f.WriteString(domain.SummaryHeader + "\n"); err != nil {
		logger.Warn("write output header failed", "path", path, "error", err)
	}
	return s, nil
}

// Name identifies the sink.
func (s *Sink) Name() string { return SinkName }

// Path returns the output file path.
func (s *Sink) Path() string { return s.path }

// LoadSummary appends one summary row.
func (s *Sink) LoadSummary(_ context.Context, summary domain.YearSummary) error {
	if _, err := s.file.WriteString(summary.Row() + "\n"); err != nil {
		return fmt.Errorf("write summary row %s: %w", summary.Year, err)
	}
	return nil
}

func (s *Sink) Close() error {
	return s.file.Close()
}

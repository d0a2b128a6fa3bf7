package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/gzip"
)

// ErrYearNotFound is returned when no log file exists for a year.
var ErrYearNotFound = errors.New("year log not found")

// DirSource opens yearly strike logs named "<year>.txt" in a directory.
// A "<year>.txt.gz" file is used when the plain file is absent.
// It implements pipeline.YearSource.
type DirSource struct {
	dir    string
	logger *slog.Logger
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string, logger *slog.Logger) *DirSource {
	return &DirSource{dir: dir, logger: logger}
}

// Path returns the plain-text log path for year.
func (s *DirSource) Path(year int) string {
	return filepath.Join(s.dir, strconv.Itoa(year)+".txt")
}

// Open returns a reader over the year's log. The caller must close it.
func (s *DirSource) Open(_ context.Context, year int) (io.ReadCloser, error) {
	path := s.Path(year)

	f, err := os.Open(path)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	gzPath := path + ".gz"
	gz, gzErr := os.Open(gzPath)
	if errors.Is(gzErr, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrYearNotFound, path)
	}
	if gzErr != nil {
		return nil, fmt.Errorf("open %s: %w", gzPath, gzErr)
	}

	zr, err := gzip.NewReader(gz)
	if err != nil {
		_ = gz.Close()
		return nil, fmt.Errorf("read gzip header %s: %w", gzPath, err)
	}
	s.logger.Debug("reading compressed year log", "path", gzPath)
	return &gzipFile{Reader: zr, file: gz}, nil
}

// gzipFile closes both the decompressor and the underlying file.
type gzipFile struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	return errors.Join(g.Reader.Close(), g.file.Close())
}

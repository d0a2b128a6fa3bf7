// Command validate checks yearly strike logs before an aggregation run. Unlike
// the aggregator, which stops at the first malformed line, it reports every
// malformed line and every missing year, then exits non-zero if any were
// found.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data -from 2001 -to 2023
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/lightning-stats/internal/adapter/file"
	"github.com/couchcryptid/lightning-stats/internal/domain"
)

const maxLineBytes = 1 << 20

type yearOpener interface {
	Open(ctx context.Context, year int) (io.ReadCloser, error)
}

// yearReport tracks pass/fail for one year's log.
type yearReport struct {
	year   int
	lines  int
	errors []string
}

func (r *yearReport) errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *yearReport) passed() bool { return len(r.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "directory holding <year>.txt logs")
	from := flag.Int("from", 2001, "first year, inclusive")
	to := flag.Int("to", 2023, "last year, exclusive")
	maxShown := flag.Int("max-errors", 20, "errors printed per year, 0 for all")
	flag.Parse()

	if *from >= *to {
		flag.Usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	src := file.NewDirSource(*dataDir, logger)
	if code := run(context.Background(), os.Stdout, src, *from, *to, *maxShown); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, out io.Writer, src yearOpener, from, to, maxShown int) int {
	fmt.Fprintln(out, "=== Strike Log Validation ===")
	fmt.Fprintln(out)

	reports := make([]*yearReport, 0, to-from)
	for year := from; year < to; year++ {
		reports = append(reports, checkYear(ctx, src, year))
	}

	allPassed := true
	total := 0
	for _, r := range reports {
		total += r.lines
		status := "\033[32mPASS\033[0m"
		if !r.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(r.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %d  %8d lines  %s\n", r.year, r.lines, status)
	}
	fmt.Fprintf(out, "\nLines: %d across %d years\n", total, len(reports))

	for _, r := range reports {
		if r.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %d ---\n", r.year)
		for i, e := range r.errors {
			if maxShown > 0 && i == maxShown {
				fmt.Fprintf(out, "  ... %d more\n", len(r.errors)-maxShown)
				break
			}
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll year logs are valid.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func checkYear(ctx context.Context, src yearOpener, year int) *yearReport {
	r := &yearReport{year: year}

	rc, err := src.Open(ctx, year)
	if errors.Is(err, file.ErrYearNotFound) {
		r.errorf("missing log")
		return r
	}
	if err != nil {
		r.errorf("open: %v", err)
		return r
	}
	defer rc.Close()

	want := strconv.Itoa(year)
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		r.lines++
		e, err := domain.ParseEvent(scanner.Text())
		if err != nil {
			r.errorf("line %d: %v", r.lines, err)
			continue
		}
		// Dates are not validated by the aggregator; flag lines filed under
		// the wrong year since they would count toward it anyway.
		if y, _, _ := strings.Cut(e.Date, domain.DefaultLayout.DateJoin); y != want {
			r.errorf("line %d: date %q is not in %d", r.lines, e.Date, year)
		}
	}
	if err := scanner.Err(); err != nil {
		r.errorf("read after line %d: %v", r.lines, err)
	}
	return r
}

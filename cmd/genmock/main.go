// Command genmock writes synthetic yearly strike logs for local runs and
// fixtures. Lines use the same record layout the aggregator parses, and the
// expected summary row of every generated year is printed so a run can be
// checked by eye.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out-dir data \
//	  -from 2001 -to 2023 \
//	  -lines 5000 -inside 0.02
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/lightning-stats/internal/domain"
	"github.com/klauspost/compress/gzip"
)

// genOptions controls the shape of one generated year.
type genOptions struct {
	square domain.BoundingSquare
	lines  int
	// inside is the share of lines placed inside the square.
	inside float64
	// spread is the half width in degrees of the region outside lines fall in.
	spread float32
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "data", "directory to write <year>.txt files to")
	from := flag.Int("from", 2001, "first year, inclusive")
	to := flag.Int("to", 2023, "last year, exclusive")
	lines := flag.Int("lines", 5000, "lines per year")
	inside := flag.Float64("inside", 0.02, "share of lines inside the square")
	spread := flag.Float64("spread", 2, "half width in degrees of the surrounding region")
	lat := flag.Float64("lat", 59.9323673548189, "center latitude")
	lon := flag.Float64("lon", 10.984623367099006, "center longitude")
	area := flag.Float64("area", 10, "square area in km²")
	seed := flag.Uint64("seed", 1, "random seed")
	gz := flag.Bool("gzip", false, "write <year>.txt.gz instead")
	flag.Parse()

	if *from >= *to || *lines < 0 || *inside < 0 || *inside > 1 || *area <= 0 {
		flag.Usage()
		return fmt.Errorf("invalid flags: need from < to, lines >= 0, 0 <= inside <= 1, area > 0")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	opts := genOptions{
		square: domain.NewBoundingSquare(float32(*lat), float32(*lon), float32(*area)),
		lines:  *lines,
		inside: *inside,
		spread: float32(*spread),
	}
	rng := rand.New(rand.NewPCG(*seed, uint64(*from)))

	fmt.Println(domain.SummaryHeader)
	for year := *from; year < *to; year++ {
		summary, err := writeYear(*outDir, year, *gz, rng, opts)
		if err != nil {
			return fmt.Errorf("year %d: %w", year, err)
		}
		if !summary.Empty() {
			fmt.Println(summary.Row())
		}
	}
	return nil
}

func writeYear(dir string, year int, gz bool, rng *rand.Rand, opts genOptions) (domain.YearSummary, error) {
	name := strconv.Itoa(year) + ".txt"
	if gz {
		name += ".gz"
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return domain.YearSummary{}, err
	}
	defer f.Close()

	var w io.Writer = f
	var zw *gzip.Writer
	if gz {
		zw = gzip.NewWriter(f)
		w = zw
	}

	summary, err := generateYear(w, rng, year, opts)
	if err != nil {
		return domain.YearSummary{}, err
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			return domain.YearSummary{}, err
		}
	}
	return summary, f.Close()
}

// generateYear writes opts.lines records for year to w and returns the
// summary the aggregator is expected to produce for them.
func generateYear(w io.Writer, rng *rand.Rand, year int, opts genOptions) (domain.YearSummary, error) {
	bw := bufio.NewWriter(w)
	tally := domain.NewTally(strconv.Itoa(year), opts.square)
	minPt, maxPt := opts.square.Bounds()

	for range opts.lines {
		e := domain.Event{Date: fmt.Sprintf("%d,%02d,%02d", year, 1+rng.IntN(12), 1+rng.IntN(28))}
		if rng.Float64() < opts.inside {
			e.Latitude = between(rng, minPt.Lat, maxPt.Lat)
			e.Longitude = between(rng, minPt.Lon, maxPt.Lon)
		} else {
			c := opts.square.Center
			e.Latitude = between(rng, c.Lat-opts.spread, c.Lat+opts.spread)
			e.Longitude = between(rng, c.Lon-opts.spread, c.Lon+opts.spread)
		}
		// Counted through the real geofilter so edge cases match the aggregator.
		tally.Add(e)

		line := domain.DefaultLayout.Format(e, filler(rng)...)
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return domain.YearSummary{}, err
		}
	}
	if err := bw.Flush(); err != nil {
		return domain.YearSummary{}, err
	}
	return tally.Summary(), nil
}

func between(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}

// filler returns the non-positional columns in order: version, hour, minute,
// second, nanosecond, peak current.
func filler(rng *rand.Rand) []string {
	return []string{
		"1",
		fmt.Sprintf("%02d", rng.IntN(24)),
		fmt.Sprintf("%02d", rng.IntN(60)),
		fmt.Sprintf("%02d", rng.IntN(60)),
		strconv.Itoa(rng.IntN(1_000_000_000)),
		strconv.Itoa(rng.IntN(200) - 100),
	}
}

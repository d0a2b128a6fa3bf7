package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/lightning-stats/internal/adapter/file"
	"github.com/couchcryptid/lightning-stats/internal/domain"
	"github.com/couchcryptid/lightning-stats/internal/observability"
	"github.com/couchcryptid/lightning-stats/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var osloSquare = domain.NewBoundingSquare(59.9323673548189, 10.984623367099006, 10)

func testOptions() genOptions {
	return genOptions{square: osloSquare, lines: 500, inside: 0.2, spread: 1}
}

func TestGenerateYear_LinesParse(t *testing.T) {
	var buf bytes.Buffer
	summary, err := generateYear(&buf, rand.New(rand.NewPCG(1, 2)), 2021, testOptions())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 500)
	for _, line := range lines {
		e, err := domain.ParseEvent(line)
		require.NoError(t, err, line)
		assert.True(t, strings.HasPrefix(e.Date, "2021,"))
	}
	assert.Equal(t, "2021", summary.Year)
	assert.Positive(t, summary.Strikes)
}

func TestGenerateYear_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	_, err := generateYear(&a, rand.New(rand.NewPCG(7, 7)), 2005, testOptions())
	require.NoError(t, err)
	_, err = generateYear(&b, rand.New(rand.NewPCG(7, 7)), 2005, testOptions())
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
}

func TestGenerateYear_SummaryMatchesAggregator(t *testing.T) {
	for _, gz := range []bool{false, true} {
		dir := t.TempDir()
		want, err := writeYear(dir, 2010, gz, rand.New(rand.NewPCG(3, 4)), testOptions())
		require.NoError(t, err)

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		src := file.NewDirSource(dir, logger)
		rc, err := src.Open(context.Background(), 2010)
		require.NoError(t, err)

		agg := pipeline.NewAggregator(domain.DefaultLayout, logger, observability.NewMetricsForTesting())
		got, err := agg.Aggregate(context.Background(), "2010", rc, osloSquare)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		assert.Equal(t, want, got, "gzip=%v", gz)

		name := "2010.txt"
		if gz {
			name += ".gz"
		}
		_, err = os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
	}
}

package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/lightning-stats/internal/adapter/file"
	"github.com/couchcryptid/lightning-stats/internal/domain"
	"github.com/couchcryptid/lightning-stats/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixtureDir = filepath.Join("testdata", "data")

// runFixtures runs the file-backed pipeline over [start, end) into outDir.
func runFixtures(t *testing.T, outDir string, start, end int) error {
	t.Helper()

	sink, err := file.OpenSink(outDir, osloSquare, false, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })

	metrics := newTestMetrics()
	p := pipeline.New(
		file.NewDirSource(fixtureDir, discardLogger()),
		pipeline.NewAggregator(domain.DefaultLayout, discardLogger(), metrics),
		[]pipeline.SummaryLoader{sink},
		discardLogger(),
		metrics,
		pipeline.Options{Square: osloSquare, YearStart: start, YearEnd: end},
	)
	return p.Run(context.Background())
}

func readOutput(t *testing.T, outDir string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(outDir, file.OutputName(osloSquare)))
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestFixtures_WritesNonEmptyYears(t *testing.T) {
	out := t.TempDir()

	require.NoError(t, runFixtures(t, out, 2021, 2023))

	assert.Equal(t, []string{
		domain.SummaryHeader,
		"2021 3 0.3 2",
	}, readOutput(t, out))
}

func TestFixtures_RerunAppends(t *testing.T) {
	out := t.TempDir()

	require.NoError(t, runFixtures(t, out, 2021, 2022))
	require.NoError(t, runFixtures(t, out, 2021, 2022))

	assert.Equal(t, []string{
		domain.SummaryHeader,
		"2021 3 0.3 2",
		domain.SummaryHeader,
		"2021 3 0.3 2",
	}, readOutput(t, out))
}

func TestFixtures_MalformedYearAbortsAfterEarlierRows(t *testing.T) {
	out := t.TempDir()

	err := runFixtures(t, out, 2021, 2024)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTooFewFields)
	assert.Contains(t, err.Error(), "year 2023 line 4")
	assert.Equal(t, []string{domain.SummaryHeader, "2021 3 0.3 2"}, readOutput(t, out))
}

func TestFixtures_MissingYearAborts(t *testing.T) {
	out := t.TempDir()

	err := runFixtures(t, out, 2020, 2022)

	require.Error(t, err)
	assert.ErrorIs(t, err, file.ErrYearNotFound)
	assert.Equal(t, []string{domain.SummaryHeader}, readOutput(t, out))
}

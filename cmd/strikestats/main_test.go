package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/couchcryptid/lightning-stats/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const year2021 = `1 2021 06 15 14 22 31 123456789 59.9301 10.9806 -12 1 0 4 0.3 0.2
1 2021 06 15 14 25 02 998000000 59.9402 10.9911 8 1 1 6 0.5 0.1
1 2021 07 02 19 03 44 500000000 59.9215 10.9733 -31 2 0 9 0.2 0.2
1 2021 07 02 19 04 10 250000000 60.3913 5.3221 -18 1 0 5 0.4 0.3
`

const outputName = "Latitude: 59.93237, Longitude: 10.984623, Areal: 10km2.txt"

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	cmd := newRootCmd(observability.NewMetricsForTesting)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

func TestRootCmd_WritesYearSummary(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "2021.txt"), []byte(year2021), 0o644))

	err := execute(t, "--data-dir", dataDir, "--out-dir", outDir, "--from", "2021", "--to", "2022")
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(outDir, outputName))
	require.NoError(t, err)
	assert.Equal(t, "År : Antall nedslag : Nedslag/areal : Antall dager\n2021 3 0.3 2\n", string(got))
}

func TestRootCmd_AppendsUnlessTruncated(t *testing.T) {
	dataDir := t.TempDir()
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "2021.txt"), []byte(year2021), 0o644))
	args := []string{"--data-dir", dataDir, "--out-dir", outDir, "--from", "2021", "--to", "2022"}

	require.NoError(t, execute(t, args...))
	require.NoError(t, execute(t, args...))
	got, err := os.ReadFile(filepath.Join(outDir, outputName))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(got), "2021 3 0.3 2"))

	require.NoError(t, execute(t, append(args, "--truncate")...))
	got, err = os.ReadFile(filepath.Join(outDir, outputName))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(got), "2021 3 0.3 2"))
}

func TestRootCmd_MissingYearFails(t *testing.T) {
	err := execute(t, "--data-dir", t.TempDir(), "--out-dir", t.TempDir(), "--from", "2021", "--to", "2022")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open year 2021")
}

func TestRootCmd_RejectsArgsAndBadFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "positional args", args: []string{"2021"}, want: "unknown command"},
		{name: "empty range", args: []string{"--from", "2022", "--to", "2022"}, want: "must be before"},
		{name: "zero area", args: []string{"--area", "0"}, want: "AREA_KM2"},
		{name: "no workers", args: []string{"--workers", "0"}, want: "WORKERS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

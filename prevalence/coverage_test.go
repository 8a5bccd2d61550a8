package prevalence

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coverageResult(t *testing.T) *Result {
	t.Helper()
	ds := build(t, []string{"Country", "Serotype"}, [][]string{
		{"A", "UK", "ST1"},
		{"B", "UK", "ST1"},
		{"C", "UK", "ST2"},
		{"D", "FR", "ST1"},
		{"E", "FR", "ST3"},
	})
	res, err := Compute(ds, Config{Strata: []string{"Country", "Serotype"}, Denominator: "Country"})
	require.NoError(t, err)
	return res
}

func TestCoverage(t *testing.T) {
	cov, err := Coverage(coverageResult(t), CoverageOptions{Target: "Serotype"})
	require.NoError(t, err)
	assert.Equal(t, "Country", cov.Partition)
	assert.Equal(t, "Serotype", cov.Target)

	type point struct {
		partition, target string
		position          int
		cumulative        float64
	}
	want := []point{
		{"FR", "ST1", 1, 0.5},
		{"FR", "ST2", 2, 0.5},
		{"FR", "ST3", 3, 1},
		{"UK", "ST1", 1, 2.0 / 3},
		{"UK", "ST2", 2, 1},
		{"UK", "ST3", 3, 1},
	}
	require.Len(t, cov.Rows, len(want))
	for i, w := range want {
		got := cov.Rows[i]
		assert.Equal(t, w.partition, got.Partition.String(), "row %d", i)
		assert.Equal(t, w.target, got.Target.String(), "row %d", i)
		assert.Equal(t, w.position, got.Position, "row %d", i)
		assert.InDelta(t, w.cumulative, got.Cumulative, 1e-12, "row %d", i)
		assert.GreaterOrEqual(t, got.Lower, 0.0)
		assert.LessOrEqual(t, got.Upper, 1.0)
	}

	// Standard errors add in quadrature: 2/3 and 1/3 of 3 samples.
	assert.InDelta(t, math.Sqrt(4.0/27), cov.Rows[4].SE, 1e-12)
	assert.Equal(t, 0.0, cov.Rows[1].Count)
}

func TestCoverageMaxCategories(t *testing.T) {
	cov, err := Coverage(coverageResult(t), CoverageOptions{Target: "Serotype", MaxCategories: 1})
	require.NoError(t, err)
	require.Len(t, cov.Rows, 2)
	for _, r := range cov.Rows {
		assert.Equal(t, "ST1", r.Target.String())
	}

	cov, err = Coverage(coverageResult(t), CoverageOptions{Target: "Serotype", MaxCategories: -1})
	require.NoError(t, err)
	assert.Len(t, cov.Rows, 6)
}

func TestCoverageOverall(t *testing.T) {
	ds := build(t, []string{"Serotype"}, [][]string{
		{"A", "ST1"},
		{"B", "ST2"},
		{"C", "ST2"},
	})
	res, err := Compute(ds, Config{Strata: []string{"Serotype"}, Overall: true})
	require.NoError(t, err)

	cov, err := Coverage(res, CoverageOptions{Target: "Serotype"})
	require.NoError(t, err)
	assert.Equal(t, OverallPartition, cov.Partition)
	require.Len(t, cov.Rows, 2)
	assert.Equal(t, "ST2", cov.Rows[0].Target.String())
	assert.InDelta(t, 1.0, cov.Rows[1].Cumulative, 1e-12)

	var buf bytes.Buffer
	require.NoError(t, cov.WriteTSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "overall\tSerotype\tposition\t"))
	assert.True(t, strings.HasPrefix(lines[1], "overall\tST2\t1\t2\t3\t"))
}

func TestCoverageErrors(t *testing.T) {
	res := coverageResult(t)

	for name, opts := range map[string]CoverageOptions{
		"unknown target":     {Target: "MLST"},
		"denominator target": {Target: "Country"},
		"not adjusted":       {Target: "Serotype", Adjusted: true},
		"confidence level":   {Target: "Serotype", ConfidenceLevel: 2},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Coverage(res, opts)
			assert.True(t, errors.Is(err, ErrConfiguration), "got %v", err)
		})
	}
}

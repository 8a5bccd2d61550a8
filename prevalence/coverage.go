package prevalence

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/carbocation/pathogenx/table"
)

// DefaultMaxCategories bounds the number of target values accumulated by
// Coverage when CoverageOptions.MaxCategories is zero.
const DefaultMaxCategories = 15

// OverallPartition labels the single partition of an Overall calculation.
const OverallPartition = "overall"

// CoverageOptions configures Coverage.
type CoverageOptions struct {
	// Target is the strata column whose values are accumulated, for example
	// serotype. Required; must not be the denominator column.
	Target string

	// MaxCategories caps how many target values are accumulated. Zero means
	// DefaultMaxCategories; negative means all.
	MaxCategories int

	// ConfidenceLevel of the cumulative interval. Zero means 0.95.
	ConfidenceLevel float64

	// Adjusted accumulates adjusted rather than raw prevalence.
	Adjusted bool
}

// CoverageRow is the cumulative prevalence of the first Position target
// values within one denominator partition.
type CoverageRow struct {
	Partition table.Value
	Target    table.Value
	Position  int

	Count       float64
	Denominator int
	Prevalence  float64

	Cumulative float64
	SE         float64
	Lower      float64
	Upper      float64
}

// CoverageTable is the output of Coverage.
type CoverageTable struct {
	Partition string
	Target    string
	Rows      []CoverageRow
}

// Coverage accumulates the prevalence of the values of one strata column
// within every denominator partition of res. Values are taken in descending
// order of their count over all partitions, the same order in every
// partition, and values absent from a partition contribute zero. Standard
// errors add in quadrature and the normal interval is clipped to [0, 1].
func Coverage(res *Result, opts CoverageOptions) (*CoverageTable, error) {
	cfg := res.Config

	targetIdx, denominatorIdx := -1, -1
	for i, name := range cfg.Strata {
		if name == opts.Target {
			targetIdx = i
		}
		if !cfg.Overall && name == cfg.Denominator {
			denominatorIdx = i
		}
	}
	switch {
	case targetIdx < 0:
		return nil, fmt.Errorf("%w: coverage target %q must be one of the strata columns %v", ErrConfiguration, opts.Target, cfg.Strata)
	case targetIdx == denominatorIdx:
		return nil, fmt.Errorf("%w: coverage target %q is the denominator column", ErrConfiguration, opts.Target)
	case opts.Adjusted && !res.Adjusted():
		return nil, fmt.Errorf("%w: adjusted coverage requested from a result without adjustment columns", ErrConfiguration)
	}

	level := opts.ConfidenceLevel
	if level == 0 {
		level = 0.95
	}
	if math.IsNaN(level) || level < 0 || level >= 1 {
		return nil, fmt.Errorf("%w: confidence level must be in [0, 1), got %v", ErrConfiguration, level)
	}
	limit := opts.MaxCategories
	if limit == 0 {
		limit = DefaultMaxCategories
	}

	out := &CoverageTable{Partition: OverallPartition, Target: opts.Target}
	if denominatorIdx >= 0 {
		out.Partition = cfg.Denominator
	}

	// Rows with more than two strata are summed over the remaining columns.
	type cell struct{ partition, target table.Value }
	counts := make(map[cell]float64)
	denominators := make(map[table.Value]int)
	totals := make(map[table.Value]float64)
	var partitions, targets []table.Value

	for _, row := range res.Rows {
		partition := table.StringValue(OverallPartition)
		if denominatorIdx >= 0 {
			partition = row.Strata[denominatorIdx]
		}
		target := row.Strata[targetIdx]

		count, denominator := float64(row.Count), row.Denominator
		if opts.Adjusted {
			count, denominator = row.AdjustedCount, row.AdjustedDenominator
		}

		if _, exists := denominators[partition]; !exists {
			partitions = append(partitions, partition)
		}
		denominators[partition] = denominator
		if _, exists := totals[target]; !exists {
			targets = append(targets, target)
		}
		totals[target] += count
		counts[cell{partition, target}] += count
	}

	sort.SliceStable(partitions, func(a, b int) bool { return partitions[a].Compare(partitions[b]) < 0 })
	sort.SliceStable(targets, func(a, b int) bool {
		if totals[targets[a]] != totals[targets[b]] {
			return totals[targets[a]] > totals[targets[b]]
		}
		return targets[a].Compare(targets[b]) < 0
	})
	if limit > 0 && len(targets) > limit {
		targets = targets[:limit]
	}

	z := ZScore(level)
	for _, partition := range partitions {
		n := float64(denominators[partition])
		var cumulative, variance float64
		for k, target := range targets {
			count := counts[cell{partition, target}]
			p := count / n
			cumulative += p
			variance += p * (1 - p) / n
			se := math.Sqrt(variance)

			out.Rows = append(out.Rows, CoverageRow{
				Partition:   partition,
				Target:      target,
				Position:    k + 1,
				Count:       count,
				Denominator: denominators[partition],
				Prevalence:  p,
				Cumulative:  cumulative,
				SE:          se,
				Lower:       clip(cumulative - z*se),
				Upper:       clip(cumulative + z*se),
			})
		}
	}

	return out, nil
}

// Header returns the column names of Records.
func (c *CoverageTable) Header() []string {
	return []string{c.Partition, c.Target, "position", "count", "denominator", "prevalence",
		"cumulative_prevalence", "cumulative_se", "cumulative_lower", "cumulative_upper"}
}

// Records formats every row as strings, in Header order.
func (c *CoverageTable) Records() [][]string {
	out := make([][]string, 0, len(c.Rows))
	for _, r := range c.Rows {
		out = append(out, []string{
			r.Partition.String(),
			r.Target.String(),
			strconv.Itoa(r.Position),
			formatFloat(r.Count),
			strconv.Itoa(r.Denominator),
			formatFloat(r.Prevalence),
			formatFloat(r.Cumulative),
			formatFloat(r.SE),
			formatFloat(r.Lower),
			formatFloat(r.Upper),
		})
	}
	return out
}

// WriteTSV writes the header and all records, tab-delimited.
func (c *CoverageTable) WriteTSV(w io.Writer) error {
	return writeTSV(w, c.Header(), c.Records())
}

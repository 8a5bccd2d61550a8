package prevalence

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/carbocation/pathogenx/dataset"
	"github.com/carbocation/pathogenx/table"
	log "github.com/sirupsen/logrus"
)

// Pooling selects how adjusted prevalence combines adjustment sub-strata.
type Pooling int

const (
	// PoolAuto uses PoolDistinct when the cluster column is among the
	// adjustment columns and PoolMean otherwise.
	PoolAuto Pooling = iota
	// PoolDistinct counts distinct adjustment values (for example clusters)
	// instead of samples, in both the group and its denominator partition.
	PoolDistinct
	// PoolMean averages, over the adjustment sub-strata present in the
	// denominator partition, the group's share of each sub-stratum.
	PoolMean
)

func (p Pooling) String() string {
	switch p {
	case PoolDistinct:
		return "distinct"
	case PoolMean:
		return "mean"
	}
	return "auto"
}

// ParsePooling accepts "auto", "distinct" or "mean".
func ParsePooling(s string) (Pooling, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return PoolAuto, nil
	case "distinct":
		return PoolDistinct, nil
	case "mean":
		return PoolMean, nil
	}
	return 0, fmt.Errorf("%w: unknown pooling %q", ErrConfiguration, s)
}

// Config describes one prevalence calculation.
type Config struct {
	// Strata are the columns whose observed value combinations form the
	// output groups. Required.
	Strata []string

	// AdjustFor lists columns whose distinct values are counted in place of
	// samples for adjusted prevalence. When the calculation clusters, the
	// cluster column is added if absent.
	AdjustFor []string

	// NDistinct lists columns whose distinct non-missing values are counted
	// per group.
	NDistinct []string

	// Denominator is the strata column whose value defines each group's
	// denominator partition. Defaults to Strata[0].
	Denominator string

	// Overall makes the whole dataset the single denominator partition.
	Overall bool

	// SNPDistance, if set and the dataset carries distances, clusters the
	// samples at this threshold before aggregating.
	SNPDistance *float64

	// Pooling selects the adjusted prevalence estimator. See Pooling.
	Pooling Pooling

	// ConfidenceLevel, if nonzero, adds standard errors and Wilson score
	// intervals at this level (e.g. 0.95).
	ConfidenceLevel float64

	// Rank adds the rank of each group's prevalence within its denominator
	// partition.
	Rank bool
}

// clusters reports whether the configuration will attach clusters to ds.
func (c Config) clusters(ds *dataset.Dataset) bool {
	return c.SNPDistance != nil && ds.HasDistances()
}

// check validates the parts of the configuration that do not depend on a
// dataset, and fills in the default denominator.
func (c Config) check() (Config, error) {
	if len(c.Strata) == 0 {
		return c, fmt.Errorf("%w: at least one strata column is required", ErrConfiguration)
	}

	seen := make(map[string]struct{}, len(c.Strata))
	for _, s := range c.Strata {
		if s == "" {
			return c, fmt.Errorf("%w: empty strata column name", ErrConfiguration)
		}
		if _, exists := seen[s]; exists {
			return c, fmt.Errorf("%w: strata column %q is listed twice", ErrConfiguration, s)
		}
		seen[s] = struct{}{}
	}

	switch {
	case c.Overall && c.Denominator != "":
		return c, fmt.Errorf("%w: an overall denominator cannot be combined with denominator column %q", ErrConfiguration, c.Denominator)
	case c.Overall:
	case c.Denominator == "":
		c.Denominator = c.Strata[0]
	default:
		if _, exists := seen[c.Denominator]; !exists {
			return c, fmt.Errorf("%w: denominator %q must be one of the strata columns %v", ErrConfiguration, c.Denominator, c.Strata)
		}
	}

	if c.SNPDistance != nil && (math.IsNaN(*c.SNPDistance) || *c.SNPDistance < 0) {
		return c, fmt.Errorf("%w: SNP distance must be non-negative, got %v", ErrConfiguration, *c.SNPDistance)
	}
	if math.IsNaN(c.ConfidenceLevel) || c.ConfidenceLevel < 0 || c.ConfidenceLevel >= 1 {
		return c, fmt.Errorf("%w: confidence level must be in [0, 1), got %v", ErrConfiguration, c.ConfidenceLevel)
	}
	if c.Pooling != PoolAuto && c.Pooling != PoolDistinct && c.Pooling != PoolMean {
		return c, fmt.Errorf("%w: unknown pooling %d", ErrConfiguration, c.Pooling)
	}

	return c, nil
}

// resolve completes the configuration against a dataset: it applies
// dataset-dependent defaults and verifies that every named column exists. The
// cluster column is allowed to be absent when clustering will create it.
func (c Config) resolve(ds *dataset.Dataset) (Config, error) {
	c, err := c.check()
	if err != nil {
		return c, err
	}

	clusters := c.clusters(ds)
	if c.SNPDistance != nil && !clusters {
		log.Warnf("%s: no distance matrix, so clustering at %v SNPs was skipped", ds.Name(), *c.SNPDistance)
	}
	if clusters && !slices.Contains(c.AdjustFor, dataset.ClusterColumn) {
		// Adjustment always counts clusters once they exist; other adjustment
		// columns refine the key.
		c.AdjustFor = append(append([]string{}, c.AdjustFor...), dataset.ClusterColumn)
	}

	if c.Pooling == PoolAuto {
		c.Pooling = PoolMean
		if slices.Contains(c.AdjustFor, dataset.ClusterColumn) {
			c.Pooling = PoolDistinct
		}
	}

	for _, group := range [][]string{c.Strata, c.AdjustFor, c.NDistinct} {
		for _, name := range group {
			if name == dataset.ClusterColumn && clusters {
				continue
			}
			if !ds.HasColumn(name) {
				return c, fmt.Errorf("%w: %w: %q", ErrConfiguration, table.ErrColumnNotFound, name)
			}
		}
	}

	return c, nil
}

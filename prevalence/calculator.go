package prevalence

import (
	"github.com/carbocation/pathogenx/dataset"
)

// Calculator runs one validated configuration against datasets.
type Calculator struct {
	config Config
}

// NewCalculator validates the dataset-independent parts of cfg and fills in
// its defaults.
func NewCalculator(cfg Config) (*Calculator, error) {
	cfg, err := cfg.check()
	if err != nil {
		return nil, err
	}
	return &Calculator{config: cfg}, nil
}

// Config returns the validated configuration.
func (c *Calculator) Config() Config { return c.config }

// Calculate clusters ds at the configured SNP distance, if any, and then
// aggregates it. Nothing is returned unless the whole calculation succeeds.
func (c *Calculator) Calculate(ds *dataset.Dataset) (*Result, error) {
	cfg, err := c.config.resolve(ds)
	if err != nil {
		return nil, err
	}

	if cfg.clusters(ds) {
		if _, err := ds.AttachClusters(*cfg.SNPDistance); err != nil {
			return nil, err
		}
	}

	return aggregate(ds, cfg)
}

// Compute is NewCalculator(cfg).Calculate(ds).
func Compute(ds *dataset.Dataset, cfg Config) (*Result, error) {
	c, err := NewCalculator(cfg)
	if err != nil {
		return nil, err
	}
	return c.Calculate(ds)
}

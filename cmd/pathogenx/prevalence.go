package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"github.com/carbocation/pathogenx/dataset"
	"github.com/carbocation/pathogenx/prevalence"
	"github.com/carbocation/pfx"
	"github.com/spf13/cobra"
)

// calculationFlags configure a prevalence calculation.
type calculationFlags struct {
	inputFlags

	strata      []string
	adjustFor   []string
	nDistinct   []string
	denominator string
	overall     bool
	snpDistance float64
	noClusters  bool
	pooling     string
	ci          float64
	rank        bool
}

func (f *calculationFlags) register(cmd *cobra.Command) {
	f.inputFlags.register(cmd)

	fs := cmd.Flags()
	fs.StringSliceVar(&f.strata, "stratify-by", nil, "Columns whose value combinations form the output groups, e.g. Country,ST. Required.")
	fs.StringSliceVar(&f.adjustFor, "adjust-for", nil, "Columns to adjust for. The Cluster column is always included when distances are given.")
	fs.StringSliceVar(&f.nDistinct, "n-distinct", nil, "Columns whose distinct values are counted per group.")
	fs.StringVar(&f.denominator, "denominator", "", "Strata column that defines each group's denominator. Default: the first strata column.")
	fs.BoolVar(&f.overall, "overall", false, "Use all samples as a single denominator.")
	fs.Float64Var(&f.snpDistance, "snp-distance", 20, "Cluster samples within this many SNPs of each other when a distance file is given.")
	fs.BoolVar(&f.noClusters, "no-clusters", false, "Do not cluster, even when a distance file is given.")
	fs.StringVar(&f.pooling, "pooling", "auto", "Adjusted prevalence estimator: distinct, mean, or auto (distinct for clusters, mean otherwise).")
	fs.Float64Var(&f.ci, "ci", 0, "Add standard errors and Wilson intervals at this confidence level, e.g. 0.95.")
	fs.BoolVar(&f.rank, "rank", false, "Rank groups by prevalence within their denominator.")
	cmd.MarkFlagRequired("stratify-by")
}

func (f *calculationFlags) config() (prevalence.Config, error) {
	pooling, err := prevalence.ParsePooling(f.pooling)
	if err != nil {
		return prevalence.Config{}, err
	}

	cfg := prevalence.Config{
		Strata:          f.strata,
		AdjustFor:       f.adjustFor,
		NDistinct:       f.nDistinct,
		Denominator:     f.denominator,
		Overall:         f.overall,
		Pooling:         pooling,
		ConfidenceLevel: f.ci,
		Rank:            f.rank,
	}
	if !f.noClusters {
		snps := f.snpDistance
		cfg.SNPDistance = &snps
	}

	return cfg, nil
}

// compute loads the datasets and runs one calculator over each.
func (f *calculationFlags) compute(cmd *cobra.Command, args []string) ([]*dataset.Dataset, []*prevalence.Result, error) {
	cfg, err := f.config()
	if err != nil {
		return nil, nil, err
	}
	calc, err := prevalence.NewCalculator(cfg)
	if err != nil {
		return nil, nil, err
	}

	datasets, err := f.load(cmd.Context(), args)
	if err != nil {
		return nil, nil, err
	}

	results := make([]*prevalence.Result, 0, len(datasets))
	for _, ds := range datasets {
		res, err := calc.Calculate(ds)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ds.Name(), err)
		}
		results = append(results, res)
	}

	return datasets, results, nil
}

var prevalenceFlags calculationFlags

var prevalenceCmd = &cobra.Command{
	Use:   "prevalence <genotypes> [metadata] [distances]",
	Short: "Report prevalence per stratum, adjusted for clusters of related samples.",
	Long: `Report the prevalence of each observed combination of the --stratify-by
columns within its denominator. When a distance file is given, samples within
--snp-distance SNPs of each other are clustered and prevalence is also
reported counting clusters instead of samples.

Pass "" for the metadata file to give distances without metadata.`,
	Args: cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		datasets, results, err := prevalenceFlags.compute(cmd, args)
		if err != nil {
			return err
		}

		STDOUT := bufio.NewWriter(cmd.OutOrStdout())
		defer STDOUT.Flush()

		if prevalenceFlags.manifest == "" {
			return results[0].WriteTSV(STDOUT)
		}
		tables := make([]tabular, len(results))
		for i, res := range results {
			tables[i] = res
		}
		return writeLabelled(STDOUT, datasets, tables)
	},
}

// tabular is satisfied by prevalence results and coverage tables.
type tabular interface {
	Header() []string
	Records() [][]string
}

// writeLabelled writes the tables of several datasets as one table with a
// leading Dataset column.
func writeLabelled(w io.Writer, datasets []*dataset.Dataset, results []tabular) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	var header []string
	for i, res := range results {
		h := append([]string{dataset.NameColumn}, res.Header()...)
		if i == 0 {
			header = h
			if err := cw.Write(header); err != nil {
				return pfx.Err(err)
			}
		} else if !slices.Equal(header, h) {
			return fmt.Errorf("dataset %s produced columns %v, unlike %v for %s; give every dataset distances or pass --no-clusters",
				datasets[i].Name(), h, header, datasets[0].Name())
		}

		for _, rec := range res.Records() {
			if err := cw.Write(append([]string{datasets[i].Name()}, rec...)); err != nil {
				return pfx.Err(err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return pfx.Err(err)
	}
	return nil
}

func init() {
	prevalenceFlags.register(prevalenceCmd)
	rootCmd.AddCommand(prevalenceCmd)
}

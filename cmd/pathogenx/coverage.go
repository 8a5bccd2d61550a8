package main

import (
	"bufio"
	"fmt"

	"github.com/carbocation/pathogenx/prevalence"
	"github.com/spf13/cobra"
)

var (
	coverageFlags calculationFlags
	coverageOpts  prevalence.CoverageOptions
)

var coverageCmd = &cobra.Command{
	Use:   "coverage <genotypes> [metadata] [distances]",
	Short: "Report the cumulative prevalence of the most common values of a column.",
	Long: `Compute prevalence as the prevalence command does, then order the values of
--target by their total count and report, within every denominator, the
cumulative prevalence of the first 1, 2, ... values. This answers questions
such as how many isolates the most common serotypes would account for.`,
	Args: cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		datasets, results, err := coverageFlags.compute(cmd, args)
		if err != nil {
			return err
		}

		tables := make([]tabular, len(results))
		for i, res := range results {
			cov, err := prevalence.Coverage(res, coverageOpts)
			if err != nil {
				return fmt.Errorf("%s: %w", datasets[i].Name(), err)
			}
			tables[i] = cov
		}

		STDOUT := bufio.NewWriter(cmd.OutOrStdout())
		defer STDOUT.Flush()

		if coverageFlags.manifest == "" {
			return tables[0].(*prevalence.CoverageTable).WriteTSV(STDOUT)
		}
		return writeLabelled(STDOUT, datasets, tables)
	},
}

func init() {
	coverageFlags.register(coverageCmd)
	fs := coverageCmd.Flags()
	fs.StringVar(&coverageOpts.Target, "target", "", "Strata column whose values are accumulated. Required.")
	fs.IntVar(&coverageOpts.MaxCategories, "max-categories", prevalence.DefaultMaxCategories, "Accumulate at most this many values; -1 for all.")
	fs.Float64Var(&coverageOpts.ConfidenceLevel, "coverage-ci", 0.95, "Confidence level of the cumulative interval.")
	fs.BoolVar(&coverageOpts.Adjusted, "adjusted", false, "Accumulate adjusted instead of raw prevalence.")
	coverageCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(coverageCmd)
}

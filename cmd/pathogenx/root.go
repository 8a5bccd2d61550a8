package main

import (
	"os"

	"github.com/carbocation/pathogenx/compileinfo"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pathogenx",
	Short: "Stratified, cluster-adjusted prevalence for pathogen genotyping data.",
	Long: `pathogenx joins genotype calls with optional sample metadata and pairwise
SNP distances, clusters isolates that lie within a SNP threshold of each other,
and reports prevalence per stratum with cluster-aware denominators.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetOutput(os.Stderr)
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		log.WithFields(compileinfo.Get().Fields()).Debugln("Starting", cmd.CommandPath())
	},
}

// Execute runs the command named on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debugging detail to STDERR")
}

package main

import (
	"bufio"
	"encoding/csv"

	"github.com/carbocation/pathogenx/cluster"
	"github.com/carbocation/pathogenx/dataset"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

// clusterRow is one line of the clusters output.
type clusterRow struct {
	Dataset     string `csv:"dataset"`
	Sample      string `csv:"sample"`
	Cluster     string `csv:"cluster"`
	ClusterSize int    `csv:"cluster_size"`
}

var (
	clusterInputs inputFlags
	clusterSNPs   float64
	clusterWithin []string
	clusterBy     []string
)

var clustersCmd = &cobra.Command{
	Use:   "clusters <genotypes> [metadata] [distances]",
	Short: "Assign every sample to a cluster of closely related samples.",
	Long: `Cluster samples into connected components of the graph linking every pair
within --snp-distance SNPs, and print each sample's cluster. With --within,
components are found separately inside each combination of those columns. With
--by, samples are grouped by the values of those columns instead and no
distances are needed.`,
	Args: cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		datasets, err := clusterInputs.load(cmd.Context(), args)
		if err != nil {
			return err
		}

		rows := []clusterRow{}
		for _, ds := range datasets {
			a, err := assign(ds)
			if err != nil {
				return err
			}

			sizes := a.Sizes()
			for i, id := range ds.Samples() {
				rows = append(rows, clusterRow{
					Dataset:     ds.Name(),
					Sample:      id,
					Cluster:     cluster.Label(a[i]),
					ClusterSize: sizes[a[i]],
				})
			}
		}

		STDOUT := bufio.NewWriter(cmd.OutOrStdout())
		defer STDOUT.Flush()

		cw := csv.NewWriter(STDOUT)
		cw.Comma = '\t'
		if err := gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(cw)); err != nil {
			return pfx.Err(err)
		}
		return nil
	},
}

func assign(ds *dataset.Dataset) (cluster.Assignment, error) {
	if len(clusterBy) > 0 {
		return ds.AttachVariableClusters(clusterBy...)
	}
	return ds.AttachClustersWithin(clusterSNPs, clusterWithin...)
}

func init() {
	clusterInputs.register(clustersCmd)
	fs := clustersCmd.Flags()
	fs.Float64Var(&clusterSNPs, "snp-distance", 20, "Link samples within this many SNPs of each other.")
	fs.StringSliceVar(&clusterWithin, "within", nil, "Find components separately inside each combination of these columns.")
	fs.StringSliceVar(&clusterBy, "by", nil, "Group samples by these columns instead of by distance.")
	rootCmd.AddCommand(clustersCmd)
}

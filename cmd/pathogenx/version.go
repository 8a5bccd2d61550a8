package main

import (
	"fmt"

	"github.com/carbocation/pathogenx/compileinfo"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), compileinfo.Get())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

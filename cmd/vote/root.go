package main

import (
	"github.com/spf13/cobra"
)

// cfgPath is the optional YAML configuration file shared by every
// subcommand (SPEC_FULL.md §C): ACAS-Xu property overrides, work-queue
// sizing, render options.
var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "vote",
	Short:         "Verify properties of decision-tree ensembles over input boxes",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "optional YAML configuration file")

	rootCmd.AddCommand(accuracyCmd)
	rootCmd.AddCommand(robustnessCmd)
	rootCmd.AddCommand(rangeCmd)
	rootCmd.AddCommand(acasxuCmd)
	rootCmd.AddCommand(mnistCmd)
	rootCmd.AddCommand(throughputCmd)
	rootCmd.AddCommand(cardinalityCmd)
	rootCmd.AddCommand(mappingsCmd)
	rootCmd.AddCommand(xgbconvCmd)
	rootCmd.AddCommand(iospaceCmd)
}

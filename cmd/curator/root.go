package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "curator",
		Short:         "Consolidate community security templates into a categorized library",
		Long: `curator deduplicates and categorizes security-testing templates gathered
from many source repositories. Running it with no arguments executes the full
pipeline: scan, fingerprint, deduplicate, classify, organize, report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsolidation(cmd, configFlag)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newRunCommand(&configFlag))
	rootCmd.AddCommand(newHistoryCommand(&configFlag))
	rootCmd.AddCommand(newConfigCommand(&configFlag))

	return rootCmd
}

// newRunCommand is an explicit alias for the root behaviour, so scripts can
// spell out the action.
func newRunCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the full consolidation pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConsolidation(cmd, *configFlag)
		},
	}
}

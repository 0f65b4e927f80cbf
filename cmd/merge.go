package main

import (
	"github.com/spf13/cobra"

	"github.com/twoyes/names-cli/internal/pipeline"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge per-country names into one deduplicated list",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.New(cfg).Merge()
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/twoyes/names-cli/internal/pipeline"
)

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Run download, parse, merge, enrich, and sql in order",
	Long:  "Runs the full offline pipeline. The embed stage is excluded; apply the generated SQL to a database first, then run embed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.New(cfg).All(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(allCmd)
}

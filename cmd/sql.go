package main

import (
	"github.com/spf13/cobra"

	"github.com/twoyes/names-cli/internal/pipeline"
)

var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "Generate idempotent seed SQL files",
	Long:  "Renders enriched names and popularity history as chunked INSERT ... ON CONFLICT statements in the output directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.New(cfg).GenerateSQL()
	},
}

func init() {
	rootCmd.AddCommand(sqlCmd)
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/twoyes/names-cli/internal/pipeline"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich merged names with meanings and metadata via LLM",
	Long:  "Queries the configured model in checkpointed batches; an interrupted run resumes where it left off without repeating API calls.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.New(cfg).Enrich(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}

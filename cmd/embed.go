package main

import (
	"github.com/spf13/cobra"

	"github.com/twoyes/names-cli/internal/pipeline"
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Backfill embedding vectors for seeded names",
	Long:  "Pages through database rows without an embedding, batches them to the embedding API, and writes the vectors back. Run after applying the seed SQL.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.New(cfg).Embed(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

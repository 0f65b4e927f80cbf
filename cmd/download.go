package main

import (
	"github.com/spf13/cobra"

	"github.com/twoyes/names-cli/internal/pipeline"
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download raw source datasets",
	Long:  "Fetches the SSA, INSEE, ONS, Cologne, INE, and ISTAT datasets into the data directory, skipping files already present and extracting archives.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.New(cfg).Download(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}

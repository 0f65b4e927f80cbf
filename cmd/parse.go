package main

import (
	"github.com/spf13/cobra"

	"github.com/twoyes/names-cli/internal/pipeline"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse raw datasets into normalized name records",
	Long:  "Runs all six country parsers over the downloaded files and writes the parsed-names and popularity artifacts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.New(cfg).Parse(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

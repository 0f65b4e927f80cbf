package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twoyes/names-cli/internal/pipeline"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check pipeline artifacts and seeded database for consistency",
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := pipeline.New(cfg).Verify(cmd.Context())
		for _, r := range results {
			status := "PASS"
			if !r.Passed {
				status = "FAIL"
			}
			fmt.Printf("%s  %-20s %s\n", status, r.Name, r.Message)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

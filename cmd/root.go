package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/twoyes/names-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "names-cli",
	Short: "Baby name seed data pipeline",
	Long:  "Downloads six national baby-name datasets, parses and merges them, enriches names via LLM, and generates idempotent seed SQL plus embeddings.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tuuthfairy/connwatch/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "connwatch",
	Short: "Scheduled dashboard connection collector",
	Long:  "Logs into the dashboard, scrapes the connections table, enriches rows with practice-group reference data, and republishes the filtered result to Google Sheets and the local history log.",
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

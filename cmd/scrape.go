package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tuuthfairy/connwatch/internal/model"
	"github.com/tuuthfairy/connwatch/internal/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the connections table and print raw rows as JSON",
	Long:  "Logs in, walks every table page, and dumps the raw rows without running the pipeline. Useful for checking selectors and credentials.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("scrape"); err != nil {
			return err
		}

		client, err := scrape.NewClient(cfg.Dashboard.BaseURL, cfg.Dashboard.Email, cfg.Dashboard.Password, dashboardTimeout())
		if err != nil {
			return eris.Wrap(err, "init scraper")
		}

		var rows []model.Connection
		for {
			batch, more, err := client.NextPage(ctx)
			if err != nil {
				return eris.Wrap(err, "scrape connections")
			}
			rows = append(rows, batch...)
			if !more {
				break
			}
		}

		zap.L().Info("scrape complete", zap.Int("rows", len(rows)))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(rows), "encode rows")
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tuuthfairy/connwatch/internal/dispatch"
	"github.com/tuuthfairy/connwatch/internal/fetcher"
	"github.com/tuuthfairy/connwatch/internal/history"
	"github.com/tuuthfairy/connwatch/internal/pipeline"
	"github.com/tuuthfairy/connwatch/internal/redash"
	"github.com/tuuthfairy/connwatch/internal/scrape"
)

var runAttempts int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one full collection pass",
	Long: `Runs the whole job once: load run policy, fetch the location reference
dataset, scrape the connections table, filter and aggregate, then publish to
the output tab and the history log.

The run is retried whole on failure; each attempt starts a fresh dashboard
session and re-reads every page.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("run"); err != nil {
			return err
		}

		attempts := runAttempts
		if attempts <= 0 {
			attempts = cfg.Run.Attempts
		}
		wait := time.Duration(cfg.Run.RetryWaitSecs) * time.Second

		var lastErr error
		for attempt := 1; attempt <= attempts; attempt++ {
			zap.L().Info("run: attempt starting",
				zap.Int("attempt", attempt),
				zap.Int("attempts", attempts),
			)

			lastErr = runOnce(ctx)
			if lastErr == nil {
				zap.L().Info("run: attempt succeeded", zap.Int("attempt", attempt))
				return nil
			}

			zap.L().Error("run: attempt failed",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			if attempt < attempts {
				zap.L().Info("run: waiting before retry", zap.Duration("wait", wait))
				select {
				case <-ctx.Done():
					return eris.Wrap(ctx.Err(), "run: cancelled")
				case <-time.After(wait):
				}
			}
		}

		return eris.Wrapf(lastErr, "run: all %d attempts failed", attempts)
	},
}

// runOnce builds fresh collaborators and executes a single attempt.
func runOnce(ctx context.Context) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	sheetsClient, err := initSheets(ctx)
	if err != nil {
		return err
	}

	source, err := scrape.NewClient(cfg.Dashboard.BaseURL, cfg.Dashboard.Email, cfg.Dashboard.Password, dashboardTimeout())
	if err != nil {
		return eris.Wrap(err, "init scraper")
	}

	groups := redash.NewClient(fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}), cfg.Redash.URL, cfg.Redash.APIKey)

	policy := pipeline.SheetPolicy{
		Client:        sheetsClient,
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
		Tab:           cfg.Sheets.GroupsTab,
	}

	disp := dispatch.New(
		dispatch.SheetSink{
			Client:        sheetsClient,
			SpreadsheetID: cfg.Sheets.SpreadsheetID,
			Tab:           cfg.Sheets.OutputTab,
		},
		history.CSVLog{Path: cfg.History.Path},
	)

	opts := pipeline.Options{
		TargetStatus:    cfg.Pipeline.TargetStatus,
		FoldStatusCase:  cfg.Pipeline.FoldStatusCase,
		ExcludedDomains: cfg.Pipeline.ExcludedDomains,
		UnknownLabel:    cfg.Pipeline.UnknownLabel,
	}

	job := pipeline.NewJob(opts, source, groups, policy, disp, st)
	_, err = job.Run(ctx)
	return err
}

func init() {
	runCmd.Flags().IntVar(&runAttempts, "attempts", 0, "override configured retry attempts")
	rootCmd.AddCommand(runCmd)
}

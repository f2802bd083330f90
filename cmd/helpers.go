package main

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/oauth2/google"

	"github.com/tuuthfairy/connwatch/internal/store"
	"github.com/tuuthfairy/connwatch/pkg/sheets"
)

// sheetsScope is the OAuth scope needed to read the policy tab and overwrite
// the output tab.
const sheetsScope = "https://www.googleapis.com/auth/spreadsheets"

// initStore opens and migrates the run ledger.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// initSheets builds a Sheets client authorized via the service-account JWT.
func initSheets(ctx context.Context) (sheets.Client, error) {
	data, err := os.ReadFile(cfg.Sheets.CredentialsFile)
	if err != nil {
		return nil, eris.Wrap(err, "read service account file")
	}
	jwtCfg, err := google.JWTConfigFromJSON(data, sheetsScope)
	if err != nil {
		return nil, eris.Wrap(err, "parse service account file")
	}
	return sheets.NewClient(sheets.WithHTTPClient(jwtCfg.Client(ctx))), nil
}

// dashboardTimeout converts the configured seconds to a duration.
func dashboardTimeout() time.Duration {
	return time.Duration(cfg.Dashboard.TimeoutSecs) * time.Second
}

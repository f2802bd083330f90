// Package redash retrieves the location reference dataset from a Redash
// query CSV export endpoint.
package redash

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tuuthfairy/connwatch/internal/fetcher"
	"github.com/tuuthfairy/connwatch/internal/model"
)

// CSV column names produced by the Redash query.
const (
	colLocationID = "locationId"
	colGroupID    = "practiceGroupId"
	colGroupName  = "practiceGroupName"
)

// Client fetches the location→practice-group reference dataset.
type Client interface {
	LocationGroups(ctx context.Context) ([]model.LocationGroup, error)
}

type csvClient struct {
	fetcher fetcher.Fetcher
	url     string
	apiKey  string
}

// NewClient creates a Redash CSV export client.
func NewClient(f fetcher.Fetcher, url, apiKey string) Client {
	return &csvClient{fetcher: f, url: url, apiKey: apiKey}
}

// LocationGroups downloads and parses the reference CSV. Records without a
// location id are skipped; the skip count is logged, not fatal.
func (c *csvClient) LocationGroups(ctx context.Context) ([]model.LocationGroup, error) {
	header := http.Header{}
	if c.apiKey != "" {
		header.Set("Authorization", "Key "+c.apiKey)
	}

	body, err := c.fetcher.Get(ctx, c.url, header)
	if err != nil {
		return nil, eris.Wrap(err, "redash: fetch csv")
	}
	defer body.Close() //nolint:errcheck

	records, err := fetcher.Records(body)
	if err != nil {
		return nil, eris.Wrap(err, "redash: parse csv")
	}

	groups := make([]model.LocationGroup, 0, len(records))
	skipped := 0
	for _, rec := range records {
		locID := rec[colLocationID]
		if locID == "" {
			skipped++
			continue
		}
		groups = append(groups, model.LocationGroup{
			LocationID: locID,
			GroupID:    rec[colGroupID],
			GroupName:  rec[colGroupName],
		})
	}

	if skipped > 0 {
		zap.L().Warn("redash: skipped records without location id", zap.Int("skipped", skipped))
	}
	zap.L().Info("redash: reference dataset fetched", zap.Int("records", len(groups)))

	return groups, nil
}

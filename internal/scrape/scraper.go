// Package scrape logs into the dashboard and walks the paginated
// connections table.
package scrape

import (
	"context"

	"github.com/tuuthfairy/connwatch/internal/model"
)

// Source produces the connections table as a finite sequence of page-sized
// batches in stable order. A fresh Source restarts from the first page, so a
// retried run re-reads the whole table.
type Source interface {
	// NextPage returns the next batch of rows and whether more pages remain.
	NextPage(ctx context.Context) ([]model.Connection, bool, error)
}

// Package store persists the run ledger.
package store

import (
	"context"

	"github.com/tuuthfairy/connwatch/internal/model"
)

// Store defines the persistence interface for the run ledger.
type Store interface {
	// CreateRun inserts a new running ledger entry.
	CreateRun(ctx context.Context) (*model.Run, error)
	// CompleteRun marks a run complete and records its stage counts.
	CompleteRun(ctx context.Context, runID string, stats model.RunStats) error
	// FailRun marks a run failed with its error message.
	FailRun(ctx context.Context, runID string, message string) error
	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

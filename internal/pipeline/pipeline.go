// Package pipeline implements the scrape → enrich → filter/merge core. The
// engine is a pure function of raw rows, reference tables, and options, so a
// whole run is reproducible from its inputs.
package pipeline

import (
	"go.uber.org/zap"

	"github.com/tuuthfairy/connwatch/internal/model"
)

// Options configures one engine pass. It is threaded in explicitly; the
// engine keeps no ambient state.
type Options struct {
	// TargetStatus is the status value to keep. Exact match, case-sensitive
	// unless FoldStatusCase is set.
	TargetStatus string
	// FoldStatusCase makes the status match case-insensitive.
	FoldStatusCase bool
	// ExcludedDomains drops rows whose domain contains any of these substrings.
	ExcludedDomains []string
	// UnknownLabel fills the group fields of units whose location id is
	// absent from the reference index.
	UnknownLabel string
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		TargetStatus:    "auth_failed",
		ExcludedDomains: []string{"unumdentalpwp.skygenusasystems.com"},
		UnknownLabel:    "Unknown",
	}
}

// Result is the output of one engine pass.
type Result struct {
	Rows  []model.AggregatedConnection
	Stats model.RunStats
}

// Run executes the filter and aggregation engine over a fully-materialized
// batch of raw rows. Stages run in a fixed order (status filter, domain
// exclusion, normalize, enrich, policy filter, aggregate) and each produces
// a fresh collection without reordering survivors. Malformed rows are
// skipped and counted, never fatal. An empty input yields an empty output.
func Run(rows []model.Connection, idx LocationIndex, run RunSet, opts Options) Result {
	log := zap.L()
	stats := model.RunStats{Scraped: len(rows)}

	valid := make([]model.Connection, 0, len(rows))
	for _, row := range rows {
		if !row.Valid() {
			stats.Malformed++
			log.Warn("pipeline: skipping malformed row",
				zap.String("name", row.Name),
				zap.String("domain", row.Domain),
				zap.String("status", row.Status),
			)
			continue
		}
		valid = append(valid, row)
	}

	byStatus := FilterStatus(valid, opts.TargetStatus, opts.FoldStatusCase)
	stats.AfterStatus = len(byStatus)
	log.Info("pipeline: status filter",
		zap.String("target", opts.TargetStatus),
		zap.Int("in", len(valid)),
		zap.Int("out", len(byStatus)),
	)

	byDomain := ExcludeDomains(byStatus, opts.ExcludedDomains)
	stats.AfterDomain = len(byDomain)
	log.Info("pipeline: domain exclusion",
		zap.Int("in", len(byStatus)),
		zap.Int("out", len(byDomain)),
	)

	units := make([]model.LocationUnit, 0, len(byDomain))
	for _, row := range byDomain {
		units = append(units, Normalize(row)...)
	}
	stats.Units = len(units)

	enriched, misses := Enrich(units, idx, opts.UnknownLabel)
	stats.EnrichMisses = misses
	if misses > 0 {
		log.Warn("pipeline: enrichment misses", zap.Int("misses", misses))
	}

	allowed := FilterPolicy(enriched, run)
	stats.AfterPolicy = len(allowed)
	log.Info("pipeline: policy filter",
		zap.Int("in", len(enriched)),
		zap.Int("out", len(allowed)),
	)

	merged := Aggregate(allowed)
	stats.Connections = len(merged)
	log.Info("pipeline: aggregated",
		zap.Int("units", len(allowed)),
		zap.Int("connections", len(merged)),
	)

	return Result{Rows: merged, Stats: stats}
}

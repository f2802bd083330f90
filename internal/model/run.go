package model

import "time"

// RunStatus represents the current state of a collection run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one ledger entry for a single collection run.
type Run struct {
	ID         string    `json:"id"`
	Status     RunStatus `json:"status"`
	Stats      RunStats  `json:"stats"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// RunStats counts rows in and out of each pipeline stage. Malformed counts
// rows skipped for missing required fields; EnrichMisses counts units whose
// location id was absent from the reference index.
type RunStats struct {
	Scraped      int `json:"scraped"`
	Malformed    int `json:"malformed"`
	AfterStatus  int `json:"after_status"`
	AfterDomain  int `json:"after_domain"`
	Units        int `json:"units"`
	EnrichMisses int `json:"enrich_misses"`
	AfterPolicy  int `json:"after_policy"`
	Connections  int `json:"connections"`
}

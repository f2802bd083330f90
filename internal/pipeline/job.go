package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tuuthfairy/connwatch/internal/model"
	"github.com/tuuthfairy/connwatch/internal/redash"
	"github.com/tuuthfairy/connwatch/internal/scrape"
	"github.com/tuuthfairy/connwatch/internal/store"
)

// PolicySource supplies the raw run-policy table.
type PolicySource interface {
	RunPolicy(ctx context.Context) ([][]string, error)
}

// Dispatcher delivers the final row set to the output sinks.
type Dispatcher interface {
	Dispatch(ctx context.Context, rows []model.AggregatedConnection, at time.Time) error
}

// Job wires the collaborators around one engine pass: reference sources in,
// scraped rows through the engine, results out to the sinks, and a ledger
// entry for the run.
type Job struct {
	opts   Options
	source scrape.Source
	groups redash.Client
	policy PolicySource
	disp   Dispatcher
	ledger store.Store
	now    func() time.Time
}

// NewJob creates a Job with all collaborators.
func NewJob(opts Options, source scrape.Source, groups redash.Client, policy PolicySource, disp Dispatcher, ledger store.Store) *Job {
	return &Job{
		opts:   opts,
		source: source,
		groups: groups,
		policy: policy,
		disp:   disp,
		ledger: ledger,
		now:    time.Now,
	}
}

// Run executes one full collection run. Reference fetch and scrape failures
// are fatal; the dispatcher always runs once aggregation completes, even on
// an empty row set.
func (j *Job) Run(ctx context.Context) (*model.Run, error) {
	log := zap.L()

	run, err := j.ledger.CreateRun(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "job: create run")
	}
	log.Info("job: run started", zap.String("run_id", run.ID))

	fail := func(cause error) (*model.Run, error) {
		if ferr := j.ledger.FailRun(ctx, run.ID, cause.Error()); ferr != nil {
			log.Warn("job: record failure", zap.Error(ferr))
		}
		return run, cause
	}

	policyRows, err := j.policy.RunPolicy(ctx)
	if err != nil {
		return fail(eris.Wrap(err, "job: fetch run policy"))
	}
	runSet := BuildRunSet(policyRows)
	log.Info("job: run policy loaded", zap.Int("groups", len(runSet)))

	groups, err := j.groups.LocationGroups(ctx)
	if err != nil {
		return fail(eris.Wrap(err, "job: fetch reference dataset"))
	}
	idx := BuildLocationIndex(groups)

	var rows []model.Connection
	for {
		batch, more, err := j.source.NextPage(ctx)
		if err != nil {
			return fail(eris.Wrap(err, "job: scrape connections"))
		}
		rows = append(rows, batch...)
		if !more {
			break
		}
	}
	log.Info("job: connections scraped", zap.Int("rows", len(rows)))

	result := Run(rows, idx, runSet, j.opts)

	if err := j.disp.Dispatch(ctx, result.Rows, j.now()); err != nil {
		run.Stats = result.Stats
		return fail(eris.Wrap(err, "job: dispatch output"))
	}

	if err := j.ledger.CompleteRun(ctx, run.ID, result.Stats); err != nil {
		log.Warn("job: record completion", zap.Error(err))
	}

	run.Status = model.RunStatusComplete
	run.Stats = result.Stats
	log.Info("job: run complete",
		zap.String("run_id", run.ID),
		zap.Int("connections", result.Stats.Connections),
	)
	return run, nil
}

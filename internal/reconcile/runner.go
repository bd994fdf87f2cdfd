package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/logging"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/match"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/report"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/runlock"
)

// Runner wires the engine components to one repository and asset store.
type Runner struct {
	cfg    *config.Config
	repo   entity.Repository
	files  entity.FileStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithClock overrides the clock used for summary timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// WithRunIDs overrides run identifier generation.
func WithRunIDs(next func() string) Option {
	return func(r *Runner) {
		if next != nil {
			r.newID = next
		}
	}
}

// New constructs a Runner. files may be nil for runs that never touch
// assets.
func New(cfg *config.Config, repo entity.Repository, files entity.FileStore, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:    cfg,
		repo:   repo,
		files:  files,
		logger: logging.NewComponentLogger(logger, "reconcile"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run is one locked batch invocation.
type run struct {
	ctx     context.Context
	id      string
	lock    *runlock.Lock
	builder *report.Builder
	logger  *slog.Logger
	started time.Time
	runner  *Runner
}

func (r *Runner) begin(ctx context.Context, command string, dryRun bool) (*run, error) {
	lock, err := runlock.Acquire(r.cfg.LockPath())
	if err != nil {
		return nil, err
	}
	id := r.newID()
	ctx = logging.WithRunID(ctx, id)
	logger := logging.WithContext(ctx, r.logger).With(
		logging.String("command", command),
		logging.Bool(logging.FieldDryRun, dryRun),
	)
	started := r.now()
	logger.Info("run started")
	return &run{
		ctx:     ctx,
		id:      id,
		lock:    lock,
		builder: report.NewBuilder(command, id, dryRun, r.cfg.Report.ItemizeLimit, started),
		logger:  logger,
		started: started,
		runner:  r,
	}, nil
}

// finish releases the lock and seals the summary.
func (rn *run) finish() report.Summary {
	if err := rn.lock.Release(); err != nil {
		logging.WarnWithContext(rn.logger, "run lock release failed", "runlock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove "+rn.lock.Path()+" if no run is active"),
		)
	}
	summary := rn.builder.Finish(rn.runner.now())
	rn.logger.Info("run finished",
		logging.Int("matched", summary.Counts.Matched),
		logging.Int("skipped", summary.Counts.Skipped),
		logging.Int("unmatched", summary.Counts.Unmatched),
		logging.Int("merged", summary.Counts.Merged),
		logging.Int("renamed", summary.Counts.Renamed),
		logging.Int("errors", summary.Counts.Errors),
		logging.Int("unresolved", summary.UnresolvedTotal),
		logging.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)
	return summary
}

// interrupted records a cancelled run. The records already processed stay in
// the summary.
func (rn *run) interrupted(remaining int) {
	rn.logger.Warn("run interrupted",
		logging.Int("remaining", remaining),
		logging.Error(rn.ctx.Err()),
	)
}

// Snapshot returns every record ordered by ID.
func (r *Runner) Snapshot(ctx context.Context) ([]entity.Entity, error) {
	all, err := r.repo.Find(ctx, entity.Filter{})
	if err != nil {
		return nil, fmt.Errorf("load directory snapshot: %w", err)
	}
	return match.SortCandidates(all), nil
}

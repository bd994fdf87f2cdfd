package reconcile

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/assets"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/dedup"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/ingest"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/logging"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/match"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/report"
)

// Command names used in summaries and run logs.
const (
	CommandAssign = "assets assign"
	CommandMerge  = "dedup merge"
	CommandRules  = "dedup rules"
	CommandImport = "import"
)

// ErrNoRules is returned when no rules file is given or configured.
var ErrNoRules = errors.New("no merge rules file configured")

// AssignAssets scans source (the configured asset source when empty) and
// links each file to the club it resolves to.
func (r *Runner) AssignAssets(ctx context.Context, source string, dryRun bool) (report.Summary, error) {
	if r.files == nil {
		return report.Summary{}, errors.New("asset store is not configured")
	}
	if source == "" {
		source = r.cfg.Paths.AssetSourceDir
	}
	candidates, err := assets.Scan(source, r.cfg.Assets.Recursive)
	if err != nil {
		return report.Summary{}, err
	}

	rn, err := r.begin(ctx, CommandAssign, dryRun)
	if err != nil {
		return report.Summary{}, err
	}
	snapshot, err := r.Snapshot(rn.ctx)
	if err != nil {
		rn.finish()
		return report.Summary{}, err
	}
	rn.logger.Info("assigning assets",
		logging.String("source", source),
		logging.Int("files", len(candidates)),
		logging.Int("clubs", len(snapshot)),
	)

	opts := assets.OptionsFromConfig(r.cfg)
	opts.DryRun = dryRun
	assigner := assets.NewAssigner(r.repo, r.files, opts, rn.logger)
	idx := match.NewIndex(snapshot)
	for i, cand := range candidates {
		if rn.ctx.Err() != nil {
			rn.interrupted(len(candidates) - i)
			return rn.finish(), rn.ctx.Err()
		}
		rn.builder.AddAssignment(assigner.AssignIndexed(rn.ctx, cand, idx))
	}
	return rn.finish(), nil
}

// MergeDuplicates collapses every composite-key bucket into its oldest
// member.
func (r *Runner) MergeDuplicates(ctx context.Context, dryRun bool) (report.Summary, error) {
	rn, err := r.begin(ctx, CommandMerge, dryRun)
	if err != nil {
		return report.Summary{}, err
	}
	snapshot, err := r.Snapshot(rn.ctx)
	if err != nil {
		rn.finish()
		return report.Summary{}, err
	}
	entity.SortByCreated(snapshot)
	groups := dedup.Duplicates(snapshot)
	rn.logger.Info("merging duplicates", logging.Int("groups", len(groups)), logging.Int("clubs", len(snapshot)))

	exec := dedup.NewExecutor(r.repo, rn.logger, dryRun)
	for i, group := range groups {
		if rn.ctx.Err() != nil {
			rn.interrupted(len(groups) - i)
			return rn.finish(), rn.ctx.Err()
		}
		rn.builder.AddOutcome(exec.MergeGroup(rn.ctx, group))
	}
	return rn.finish(), nil
}

// ApplyRules applies the curated merge rules at path (the configured rules
// file when empty) in file order. Each rule sees the effects of the rules
// before it.
func (r *Runner) ApplyRules(ctx context.Context, path string, dryRun bool) (report.Summary, error) {
	if path == "" {
		path = r.cfg.Dedup.RulesPath
	}
	if path == "" {
		return report.Summary{}, ErrNoRules
	}
	rules, err := dedup.LoadRules(path)
	if err != nil {
		return report.Summary{}, err
	}

	rn, err := r.begin(ctx, CommandRules, dryRun)
	if err != nil {
		return report.Summary{}, err
	}
	snapshot, err := r.Snapshot(rn.ctx)
	if err != nil {
		rn.finish()
		return report.Summary{}, err
	}
	rn.logger.Info("applying merge rules", logging.String("rules_file", path), logging.Int("rules", len(rules)))

	exec := dedup.NewExecutor(r.repo, rn.logger, dryRun)
	for i, rule := range rules {
		if rn.ctx.Err() != nil {
			rn.interrupted(len(rules) - i)
			return rn.finish(), rn.ctx.Err()
		}
		outcome := exec.ApplyRule(rn.ctx, rule, snapshot)
		rn.builder.AddOutcome(outcome)
		snapshot = dedup.ApplyOutcome(snapshot, outcome)
	}
	return rn.finish(), nil
}

// Import reads listings from the CSV file at path and creates the ones the
// directory does not already hold.
func (r *Runner) Import(ctx context.Context, path string, dryRun bool) (report.Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return report.Summary{}, fmt.Errorf("open import file: %w", err)
	}
	rows, err := ingest.ReadCSV(file)
	closeErr := file.Close()
	if err != nil {
		return report.Summary{}, fmt.Errorf("%s: %w", path, err)
	}
	if closeErr != nil {
		return report.Summary{}, fmt.Errorf("close import file: %w", closeErr)
	}

	rn, err := r.begin(ctx, CommandImport, dryRun)
	if err != nil {
		return report.Summary{}, err
	}
	snapshot, err := r.Snapshot(rn.ctx)
	if err != nil {
		rn.finish()
		return report.Summary{}, err
	}
	rn.logger.Info("importing listings", logging.String("file", path), logging.Int("rows", len(rows)))

	opts := ingest.OptionsFromConfig(r.cfg)
	opts.DryRun = dryRun
	results := ingest.NewImporter(r.repo, opts, rn.logger).Import(rn.ctx, rows, snapshot)
	for _, res := range results {
		rn.builder.AddImport(res)
	}
	return rn.finish(), rn.ctx.Err()
}

package assets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/logging"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/match"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/textutil"
)

// Outcome classifies how one asset file was handled.
type Outcome string

const (
	OutcomeAssigned        Outcome = "assigned"
	OutcomeAlreadyAssigned Outcome = "alreadyAssigned"
	OutcomeUnmatched       Outcome = "unmatched"
	OutcomeTooGeneric      Outcome = "tooGeneric"
	OutcomeWeakMatch       Outcome = "weakMatch"
	OutcomeFailed          Outcome = "failed"
)

// Assignment is the per-file result of Assign.
type Assignment struct {
	Candidate entity.AssetCandidate
	Key       string
	Outcome   Outcome
	Entity    *entity.Entity
	Score     int
	FileName  string
	Ref       string
	Bytes     int64
	Err       error
}

// Options carries the matching knobs used by the Assigner.
type Options struct {
	Weights      match.Weights
	MinScore     int
	MinKeyLength int
	OverlapRatio float64
	NoiseWords   []string
	DryRun       bool
}

// OptionsFromConfig maps configuration onto assigner options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Weights: match.Weights{
			Name:     cfg.Matching.NameWeight,
			Location: cfg.Matching.LocationWeight,
		},
		MinScore:     cfg.Matching.MinScore,
		MinKeyLength: cfg.Matching.MinKeyLength,
		OverlapRatio: cfg.Matching.OverlapRatio,
		NoiseWords:   cfg.Assets.NoiseWords,
	}
}

// Sizer is implemented by file stores that can report copied byte counts.
type Sizer interface {
	CopySized(source, name string) (int64, error)
}

// Assigner links asset files to entities.
type Assigner struct {
	repo   entity.Repository
	files  entity.FileStore
	opts   Options
	logger *slog.Logger
}

// NewAssigner constructs an Assigner. Zero-valued options fall back to the
// package defaults.
func NewAssigner(repo entity.Repository, files entity.FileStore, opts Options, logger *slog.Logger) *Assigner {
	if opts.Weights == (match.Weights{}) {
		opts.Weights = match.DefaultWeights()
	}
	if opts.MinScore < 1 {
		opts.MinScore = 1
	}
	if opts.MinKeyLength < 1 {
		opts.MinKeyLength = 3
	}
	if opts.OverlapRatio <= 0 {
		opts.OverlapRatio = match.DefaultOverlapRatio
	}
	if opts.NoiseWords == nil {
		opts.NoiseWords = textutil.DefaultNoiseWords
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Assigner{
		repo:   repo,
		files:  files,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "assets"),
	}
}

// Assign matches one candidate against entities.
func (a *Assigner) Assign(ctx context.Context, candidate entity.AssetCandidate, entities []entity.Entity) Assignment {
	return a.AssignIndexed(ctx, candidate, match.NewIndex(entities))
}

// AssignIndexed matches one candidate against a prebuilt index. A successful
// assignment is written back into idx so later candidates in the same run see
// the new reference.
func (a *Assigner) AssignIndexed(ctx context.Context, candidate entity.AssetCandidate, idx *match.Index) Assignment {
	result := Assignment{Candidate: candidate}
	name := candidate.DisplayName
	if name == "" {
		name = candidate.SourcePath
	}

	result.Key = textutil.StripNoise(name, a.opts.NoiseWords)
	query := textutil.Tight(result.Key)
	if len(query) < a.opts.MinKeyLength {
		result.Outcome = OutcomeTooGeneric
		result.Err = fmt.Errorf("%q: %w", name, entity.ErrTooGeneric)
		a.logger.Debug("asset key too generic", logging.String("file", name), logging.String("key", result.Key))
		return result
	}

	resolved := idx.Resolve(query, a.opts.MinScore, a.opts.Weights)
	result.Score = resolved.Score
	if !resolved.Matched() {
		result.Outcome = OutcomeUnmatched
		result.Err = fmt.Errorf("%q: %w", name, entity.ErrNoMatch)
		return result
	}
	club := *resolved.Entity
	result.Entity = &club

	if club.HasAsset() {
		result.Outcome = OutcomeAlreadyAssigned
		result.Ref = club.AssetRef
		return result
	}

	cand, _ := idx.Candidate(club.ID)
	if !match.Overlap(query, cand.NameKey, a.opts.OverlapRatio, cand.LocationKey) {
		result.Outcome = OutcomeWeakMatch
		logging.WarnWithContext(a.logger, "asset match rejected by overlap gate",
			"asset_weak_match",
			logging.String("file", name),
			logging.Club(club.ID, club.Name),
			logging.Int("score", resolved.Score),
			logging.String(logging.FieldErrorHint, "rename the file to the club name or assign it by hand"),
			logging.String(logging.FieldImpact, "asset left unassigned"),
		)
		return result
	}

	result.FileName = textutil.AssetFileName(candidate.SourcePath)
	if result.FileName == "" {
		result.Outcome = OutcomeFailed
		result.Err = fmt.Errorf("derive file name for %q", candidate.SourcePath)
		return result
	}
	result.Ref = a.files.Ref(result.FileName)

	if a.opts.DryRun {
		result.Outcome = OutcomeAssigned
		club.AssetRef = result.Ref
		result.Entity = &club
		idx.Update(club)
		return result
	}

	exists, err := a.files.Exists(result.FileName)
	if err != nil {
		return a.failed(result, fmt.Errorf("check %s: %w", result.FileName, err))
	}
	if !exists {
		bytes, err := a.copy(candidate.SourcePath, result.FileName)
		if err != nil {
			return a.failed(result, fmt.Errorf("copy %s: %w", result.FileName, err))
		}
		result.Bytes = bytes
	}

	ref := result.Ref
	updated, err := a.repo.Update(ctx, club.ID, entity.Update{AssetRef: &ref})
	if err != nil {
		return a.failed(result, fmt.Errorf("update club %d: %w", club.ID, err))
	}
	result.Outcome = OutcomeAssigned
	result.Entity = updated
	idx.Update(*updated)

	args := []any{
		logging.String("file", name),
		logging.Club(updated.ID, updated.Name),
		logging.String("ref", ref),
		logging.Int("score", resolved.Score),
	}
	if result.Bytes > 0 {
		args = append(args, logging.String("size", humanize.Bytes(uint64(result.Bytes))))
	} else {
		args = append(args, logging.Bool("reused", true))
	}
	a.logger.Info("asset assigned", args...)
	return result
}

func (a *Assigner) copy(source, name string) (int64, error) {
	if sizer, ok := a.files.(Sizer); ok {
		return sizer.CopySized(source, name)
	}
	return 0, a.files.Copy(source, name)
}

func (a *Assigner) failed(result Assignment, err error) Assignment {
	result.Outcome = OutcomeFailed
	result.Err = err
	logging.ErrorWithContext(a.logger, "asset assignment failed", "asset_failed",
		logging.String("file", result.Candidate.SourcePath),
		logging.Error(err),
	)
	return result
}

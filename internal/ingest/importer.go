package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/config"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/logging"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/match"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/textutil"
)

// Outcome classifies one imported row.
type Outcome string

const (
	OutcomeCreated    Outcome = "created"
	OutcomeExists     Outcome = "exists"
	OutcomeTooGeneric Outcome = "tooGeneric"
	OutcomeInvalid    Outcome = "invalid"
	OutcomeFailed     Outcome = "failed"
)

// Result is the per-row result of Import.
type Result struct {
	Row     Row
	Outcome Outcome
	Entity  *entity.Entity
	Score   int
	Err     error
}

// Options configures duplicate suppression.
type Options struct {
	Weights      match.Weights
	MinKeyLength int
	OverlapRatio float64
	DryRun       bool
}

// OptionsFromConfig maps configuration onto import options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Weights: match.Weights{
			Name:     cfg.Matching.NameWeight,
			Location: cfg.Matching.LocationWeight,
		},
		MinKeyLength: cfg.Matching.MinKeyLength,
		OverlapRatio: cfg.Matching.OverlapRatio,
	}
}

// Importer creates pending clubs for rows that do not resolve to an
// existing record.
type Importer struct {
	repo   entity.Repository
	opts   Options
	logger *slog.Logger
}

// NewImporter constructs an Importer.
func NewImporter(repo entity.Repository, opts Options, logger *slog.Logger) *Importer {
	if opts.Weights == (match.Weights{}) {
		opts.Weights = match.DefaultWeights()
	}
	if opts.MinKeyLength < 1 {
		opts.MinKeyLength = 3
	}
	if opts.OverlapRatio <= 0 {
		opts.OverlapRatio = match.DefaultOverlapRatio
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Importer{repo: repo, opts: opts, logger: logging.NewComponentLogger(logger, "ingest")}
}

// Import processes rows in order against snapshot. Clubs created earlier in
// the same call suppress later duplicates.
func (im *Importer) Import(ctx context.Context, rows []Row, snapshot []entity.Entity) []Result {
	known := entity.Clone(snapshot)
	idx := match.NewIndex(known)
	results := make([]Result, 0, len(rows))
	var nextPlanned int64 = -1

	for _, row := range rows {
		res := im.importRow(ctx, row, known, idx)
		if res.Outcome == OutcomeCreated && res.Entity != nil {
			created := *res.Entity
			if created.ID == 0 {
				created.ID = nextPlanned
				nextPlanned--
			}
			known = append(known, created)
			idx = match.NewIndex(known)
		}
		results = append(results, res)
	}
	return results
}

func (im *Importer) importRow(ctx context.Context, row Row, known []entity.Entity, idx *match.Index) Result {
	res := Result{Row: row}
	if row.Name == "" {
		res.Outcome = OutcomeInvalid
		res.Err = fmt.Errorf("line %d: %w: name is empty", row.Line, entity.ErrValidation)
		return res
	}

	existing, err := match.FindExact(row.Name, row.Location, known)
	if err != nil {
		// Several exact matches already exist; importing another would only
		// add to the pile.
		res.Outcome = OutcomeExists
		res.Err = err
		return res
	}
	if existing != nil {
		res.Outcome = OutcomeExists
		res.Entity = existing
		res.Score = im.opts.Weights.Name + im.opts.Weights.Location
		return res
	}

	query := textutil.Tight(textutil.Loose(row.Name))
	if len(query) < im.opts.MinKeyLength {
		res.Outcome = OutcomeTooGeneric
		res.Err = fmt.Errorf("line %d %q: %w", row.Line, row.Name, entity.ErrTooGeneric)
		return res
	}

	// A name hit is required; a shared location alone never marks a row as
	// a duplicate.
	resolved := idx.Resolve(query, im.opts.Weights.Name, im.opts.Weights)
	if resolved.Matched() {
		cand, _ := idx.Candidate(resolved.Entity.ID)
		if match.Overlap(query, cand.NameKey, im.opts.OverlapRatio) && sameArea(row.Location, cand.LocationKey) {
			res.Outcome = OutcomeExists
			res.Entity = resolved.Entity
			res.Score = resolved.Score
			return res
		}
	}

	data := entity.NewEntity{
		Name:     row.Name,
		Location: row.Location,
		AssetRef: row.AssetRef,
		Status:   entity.StatusPending,
	}
	if im.opts.DryRun {
		validated, err := entity.ValidateNew(data)
		if err != nil {
			res.Outcome = OutcomeInvalid
			res.Err = fmt.Errorf("line %d: %w", row.Line, err)
			return res
		}
		res.Outcome = OutcomeCreated
		res.Entity = &entity.Entity{Name: validated.Name, Location: validated.Location, AssetRef: validated.AssetRef, Status: validated.Status}
		return res
	}

	created, err := im.repo.Create(ctx, data)
	if err != nil {
		res.Err = fmt.Errorf("line %d: %w", row.Line, err)
		res.Outcome = OutcomeFailed
		if errors.Is(err, entity.ErrValidation) {
			res.Outcome = OutcomeInvalid
		} else {
			logging.ErrorWithContext(im.logger, "import row failed", "ingest_failed",
				logging.Int("line", row.Line),
				logging.String("name", row.Name),
				logging.Error(err),
			)
		}
		return res
	}
	res.Outcome = OutcomeCreated
	res.Entity = created
	im.logger.Info("club imported as pending", logging.Club(created.ID, created.Name), logging.Int("line", row.Line))
	return res
}

// sameArea reports whether a row location is compatible with a stored
// location key. A missing location on either side never rules a match out.
func sameArea(location, storedKey string) bool {
	rowKey := textutil.Tight(location)
	if rowKey == "" || storedKey == "" {
		return true
	}
	return strings.Contains(rowKey, storedKey) || strings.Contains(storedKey, rowKey)
}

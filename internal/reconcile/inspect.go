package reconcile

import (
	"context"
	"fmt"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/assets"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/dedup"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/match"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/textutil"
)

// Findings lists duplicate candidates without changing anything.
type Findings struct {
	// Duplicates share a composite key and would be merged by MergeDuplicates.
	Duplicates []dedup.Group `json:"duplicates"`
	// Similar share a loose name across locations and need a human decision.
	Similar []dedup.Group `json:"similar"`
}

// Scan reports duplicate and similar-name buckets. It is read-only and does
// not take the run lock.
func (r *Runner) Scan(ctx context.Context) (Findings, error) {
	snapshot, err := r.Snapshot(ctx)
	if err != nil {
		return Findings{}, err
	}
	entity.SortByCreated(snapshot)
	return Findings{
		Duplicates: dedup.Duplicates(snapshot),
		Similar:    dedup.SimilarNames(snapshot),
	}, nil
}

// Explanation shows how a free-text query scores against the directory.
type Explanation struct {
	Query      string         `json:"query"`
	Key        string         `json:"key"`
	TooGeneric bool           `json:"too_generic"`
	Best       *entity.Entity `json:"best,omitempty"`
	Score      int            `json:"score"`
	// Confident is false when the best match fails the overlap gate and
	// an asset run would leave it unassigned.
	Confident bool           `json:"confident"`
	Ranked    []match.Scored `json:"ranked"`
}

// Explain resolves query the same way an asset file name is resolved and
// returns every scoring candidate.
func (r *Runner) Explain(ctx context.Context, query string) (Explanation, error) {
	snapshot, err := r.Snapshot(ctx)
	if err != nil {
		return Explanation{}, err
	}
	opts := assets.OptionsFromConfig(r.cfg)
	out := Explanation{Query: query, Key: textutil.StripNoise(query, opts.NoiseWords)}
	tight := textutil.Tight(out.Key)
	if len(tight) < opts.MinKeyLength {
		out.TooGeneric = true
		return out, fmt.Errorf("%q: %w", query, entity.ErrTooGeneric)
	}

	idx := match.NewIndex(snapshot)
	out.Ranked = idx.ResolveAll(tight, opts.Weights)
	resolved := idx.Resolve(tight, opts.MinScore, opts.Weights)
	out.Score = resolved.Score
	if !resolved.Matched() {
		return out, fmt.Errorf("%q: %w", query, entity.ErrNoMatch)
	}
	out.Best = resolved.Entity
	cand, _ := idx.Candidate(resolved.Entity.ID)
	out.Confident = match.Overlap(tight, cand.NameKey, opts.OverlapRatio, cand.LocationKey)
	return out, nil
}

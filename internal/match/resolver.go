package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/textutil"
)

// Result is the outcome of one resolver invocation.
type Result struct {
	Key    string
	Entity *entity.Entity
	Score  int
}

// Matched reports whether an entity was selected.
func (r Result) Matched() bool {
	return r.Entity != nil
}

// Scored pairs a candidate with its score for explanation output.
type Scored struct {
	Entity entity.Entity `json:"entity"`
	Score  int           `json:"score"`
}

// Index holds candidates with precomputed keys so batch runs do not
// re-normalize every entity for every query. It preserves input order.
type Index struct {
	candidates []Candidate
}

// NewIndex builds an index over entities in the order supplied.
func NewIndex(entities []entity.Entity) *Index {
	candidates := make([]Candidate, 0, len(entities))
	for _, e := range entities {
		candidates = append(candidates, NewCandidate(e))
	}
	return &Index{candidates: candidates}
}

// Len returns the number of indexed candidates.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.candidates)
}

// Resolve returns the best candidate for a tight-form query. A strictly
// greater score replaces the current best, so the earliest candidate wins a
// tie. The entity is returned only when the best score reaches minScore.
func (idx *Index) Resolve(query string, minScore int, w Weights) Result {
	result := Result{Key: query}
	if idx == nil || query == "" {
		return result
	}
	bestScore := 0
	var best *Candidate
	for i := range idx.candidates {
		c := &idx.candidates[i]
		score := scoreCandidate(query, *c, w)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	result.Score = bestScore
	if best != nil && bestScore >= minScore {
		matched := best.Entity
		result.Entity = &matched
	}
	return result
}

// Candidate returns the indexed candidate for an entity ID.
func (idx *Index) Candidate(id int64) (Candidate, bool) {
	if idx == nil {
		return Candidate{}, false
	}
	for _, c := range idx.candidates {
		if c.Entity.ID == id {
			return c, true
		}
	}
	return Candidate{}, false
}

// Update replaces the indexed copy of e, matched by ID, and recomputes its
// keys. It reports whether the entity was present.
func (idx *Index) Update(e entity.Entity) bool {
	if idx == nil {
		return false
	}
	for i := range idx.candidates {
		if idx.candidates[i].Entity.ID == e.ID {
			idx.candidates[i] = NewCandidate(e)
			return true
		}
	}
	return false
}

// ResolveAll returns every candidate with a positive score, highest first.
// Equal scores keep input order.
func (idx *Index) ResolveAll(query string, w Weights) []Scored {
	if idx == nil || query == "" {
		return nil
	}
	var out []Scored
	for _, c := range idx.candidates {
		if score := scoreCandidate(query, c, w); score > 0 {
			out = append(out, Scored{Entity: c.Entity, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Resolve is the single-query form of Index.Resolve.
func Resolve(query string, candidates []entity.Entity, minScore int, w Weights) Result {
	return NewIndex(candidates).Resolve(query, minScore, w)
}

// SortCandidates returns a copy of entities ordered by ID, the deterministic
// tie-break order used across runs.
func SortCandidates(entities []entity.Entity) []entity.Entity {
	sorted := entity.Clone(entities)
	entity.SortByID(sorted)
	return sorted
}

// FindExact looks up the entity whose name equals name once case,
// diacritics, and punctuation are folded away. When location is non-empty
// the entity's location must match too. It returns nil when nothing matches
// and an error wrapping entity.ErrAmbiguous when more than one entity does.
func FindExact(name, location string, candidates []entity.Entity) (*entity.Entity, error) {
	nameKey := textutil.Plain(name)
	if nameKey == "" {
		return nil, nil
	}
	locKey := textutil.Plain(location)

	var hits []entity.Entity
	for _, e := range candidates {
		if textutil.Plain(e.Name) != nameKey {
			continue
		}
		if locKey != "" && textutil.Plain(e.Location) != locKey {
			continue
		}
		hits = append(hits, e)
	}
	switch len(hits) {
	case 0:
		return nil, nil
	case 1:
		found := hits[0]
		return &found, nil
	default:
		ids := make([]string, 0, len(hits))
		for _, h := range hits {
			ids = append(ids, fmt.Sprintf("%d", h.ID))
		}
		return nil, fmt.Errorf("%w: %q matches ids %s", entity.ErrAmbiguous, name, strings.Join(ids, ", "))
	}
}

package match

import (
	"math"
	"strings"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/textutil"
)

// DefaultOverlapRatio is the share of the shorter key a window must cover.
const DefaultOverlapRatio = 0.7

// Weights are the points awarded by Score for each containment signal.
type Weights struct {
	Name     int
	Location int
}

// DefaultWeights returns the empirically tuned weights: name containment
// outranks location containment.
func DefaultWeights() Weights {
	return Weights{Name: 3, Location: 2}
}

// Candidate is an entity with its tight keys precomputed.
type Candidate struct {
	Entity      entity.Entity
	NameKey     string
	LocationKey string
}

// NewCandidate computes the tight keys of e.
func NewCandidate(e entity.Entity) Candidate {
	return Candidate{
		Entity:      e,
		NameKey:     textutil.Tight(e.Name),
		LocationKey: textutil.Tight(e.Location),
	}
}

// Score returns the heuristic containment score of a tight-form query
// against an entity.
func Score(query string, e entity.Entity, w Weights) int {
	return scoreCandidate(query, NewCandidate(e), w)
}

func scoreCandidate(query string, c Candidate, w Weights) int {
	if query == "" {
		return 0
	}
	score := 0
	if containsEither(c.NameKey, query) {
		score += w.Name
	}
	if containsEither(c.LocationKey, query) {
		score += w.Location
	}
	return score
}

// containsEither reports whether either key contains the other. Empty keys
// carry no signal.
func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// OverlapWindow returns floor(min(len(a), len(b)) * ratio), at least 1.
func OverlapWindow(a, b string, ratio float64) int {
	n := min(len(a), len(b))
	window := int(math.Floor(float64(n) * ratio))
	if window < 1 {
		window = 1
	}
	return window
}

// OverlapAt reports whether some window-length substring of a occurs in b or
// in one of the secondary fields. Shrinking the window never turns a pass
// into a failure.
func OverlapAt(a, b string, window int, secondary ...string) bool {
	if a == "" {
		return false
	}
	if window < 1 {
		window = 1
	}
	if window > len(a) {
		return false
	}
	targets := make([]string, 0, 1+len(secondary))
	for _, t := range append([]string{b}, secondary...) {
		if t != "" {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		return false
	}
	for i := 0; i+window <= len(a); i++ {
		piece := a[i : i+window]
		for _, t := range targets {
			if strings.Contains(t, piece) {
				return true
			}
		}
	}
	return false
}

// Overlap applies the windowed gate with the window derived from ratio.
// Both a and b must be non-empty.
func Overlap(a, b string, ratio float64, secondary ...string) bool {
	if a == "" || b == "" {
		return false
	}
	return OverlapAt(a, b, OverlapWindow(a, b, ratio), secondary...)
}

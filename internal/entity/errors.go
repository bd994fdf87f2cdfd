package entity

import "errors"

var (
	// ErrTooGeneric marks a query whose normalized key is below the minimum length.
	ErrTooGeneric = errors.New("input too generic to match")
	// ErrNoMatch marks a query with no candidate above the score threshold.
	ErrNoMatch = errors.New("no candidate above threshold")
	// ErrAmbiguous marks a targeted lookup that found more than one equally strong candidate.
	ErrAmbiguous = errors.New("ambiguous multiple matches")
	// ErrReferentialIntegrity marks a delete refused because dependent records exist.
	ErrReferentialIntegrity = errors.New("entity is still referenced by dependent records")
	// ErrNotFound marks an unknown entity identifier.
	ErrNotFound = errors.New("entity not found")
	// ErrValidation marks a payload rejected at the repository boundary.
	ErrValidation = errors.New("invalid entity data")
)

// IsExpected reports whether err is one of the recoverable per-record
// outcomes rather than an unexpected port failure.
func IsExpected(err error) bool {
	return errors.Is(err, ErrTooGeneric) ||
		errors.Is(err, ErrNoMatch) ||
		errors.Is(err, ErrAmbiguous) ||
		errors.Is(err, ErrReferentialIntegrity)
}

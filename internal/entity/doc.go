// Package entity defines the club record model shared by the matching,
// deduplication, and asset packages, together with the two ports the engine
// consumes: the record Repository and the asset FileStore.
//
// Entities are only ever created or mutated through a Repository. The engine
// works on a snapshot fetched once per run and reports per-record outcomes as
// values; the sentinel errors in this package classify the expected failure
// modes so callers can branch with errors.Is.
package entity

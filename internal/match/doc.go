// Package match scores and resolves free-text queries against a snapshot of
// club entities.
//
// The heuristic Score adds weighted containment signals between tight keys
// and is meant only for ranking candidates for the same query. The windowed
// Overlap gate is the stricter check applied before any write is committed.
// Resolve performs a linear best-match scan where the first candidate wins a
// tie, so callers must supply candidates in a stable order (SortByID).
package match

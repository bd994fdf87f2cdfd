// Package reconcile runs the batch operations of the club directory: asset
// assignment, duplicate merging, curated merge rules, and CSV import.
//
// Every write run takes the run lock, fetches one snapshot of the directory,
// processes records sequentially, and returns a report.Summary. A failure on
// one record is recorded in the summary and never aborts the run; only
// failures that prevent the run from starting are returned as errors.
package reconcile

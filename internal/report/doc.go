// Package report aggregates per-record outcomes of a batch run into the
// operator-facing summary and renders it as a table or JSON.
package report

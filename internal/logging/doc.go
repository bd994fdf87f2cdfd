// Package logging assembles structured slog loggers and formatting helpers used
// across clubmatch.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so every line written during a batch
// run carries the run ID. Skips and recoverable failures are logged through
// WarnWithContext, which guarantees an event type, a hint, and the impact on
// the run. A no-op logger is provided for tests and wiring code.
package logging

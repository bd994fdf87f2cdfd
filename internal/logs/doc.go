// Package logs locates and reads the per-run log files written by batch runs.
//
// Every write run logs to its own file named by logging.RunLogName. This
// package finds the newest run, or the run matching an ID prefix taken from a
// summary, and returns its last lines with bounded memory.
package logs

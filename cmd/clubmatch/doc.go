// Package main hosts the clubmatch CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the reconcile
// runner: asset assignment, duplicate scans and merges, curated merge rules,
// CSV import, and the resolver explanation used to debug a match. It
// centralizes configuration resolution, run logging, and store setup so
// subcommands only parse flags and render results.
//
// Keep this package lean: new behavior belongs in the internal packages
// first and is surfaced here as a command or flag.
package main

// Package logging assembles structured slog loggers used across dubsync.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with run IDs, stage names, and timeline chunk indexes. A no-op logger
// is provided for tests and wiring code that cannot fail.
package logging

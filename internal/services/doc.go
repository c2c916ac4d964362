// Package services defines shared utilities consumed by the dubbing engine
// components and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and timeline chunk
//     indexes for logging.
//   - Structured error markers plus the Wrap helper that tag failures with one
//     of the engine error kinds (probe, alignment, interpolation, concat,
//     merge) so callers can classify them with errors.Is.
//   - The Result envelope every engine entry point returns instead of letting
//     an error escape its boundary.
//
// Use these helpers when wiring new components so error reporting and log
// shape stay uniform across the engine.
package services

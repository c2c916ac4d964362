// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: the format and stream fields needed for timing
//   - Prober: duration lookups used by the aligner, timeline and mixer
//   - CLI: Prober backed by the ffprobe executable
//
// Failures surfaced through CLI are marked with services.ErrProbe.
package ffprobe

// Package config loads, normalizes, and validates dubsync configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DUBSYNC_RIFE_PATH and DUBSYNC_WORK_DIR. Timing constants used by the
// segmenter, aligner, timeline and mixer are validated here once so the
// components can trust the values they receive.
package config

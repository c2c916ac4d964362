// Package subtitles turns recogniser word timings into display cues.
//
// Repair fills in missing or implausible word timestamps, the Segmenter merges
// and chunks words into cues and applies timing polish, and the SRT helpers
// read and write the interchange format. Everything here is pure apart from
// file I/O helpers.
package subtitles

// Package history keeps a SQLite ledger of engine runs: what was merged,
// with which strategy, how many timeline chunks were rendered or dropped, and
// how the run ended. The CLI's history command reads it back.
//
// The schema is embedded and versioned; a version mismatch is reported
// rather than migrated.
package history

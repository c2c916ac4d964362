// Package main hosts the dubsync CLI entrypoint and command graph.
//
// The Cobra command tree maps terminal invocations onto the dubbing engine:
// merge, align and subtitles wrap the single-shot entry points, plan and probe
// inspect inputs without rendering, dub runs the full recognise, translate,
// synthesize and merge pipeline, and history and doctor report on past runs
// and installed tools. Engine results print as a status block or, with
// --json, as the raw result envelope; a failed result exits non-zero.
//
// Keep this package thin: behavior belongs in internal/dubbing and the
// packages beneath it.
package main

// Package timeline rebuilds a dubbed video from the original footage and a
// list of replacement audio clips.
//
// Plan lays the timeline out as gap chunks (original footage with silence),
// segment chunks (footage re-timed to the replacement clip) and a tail chunk.
// Reconstructor renders each chunk with ffmpeg into a per-run directory and
// joins them with the concat demuxer using a stream copy. A chunk that fails
// to render is dropped from the output instead of failing the run; only an
// empty chunk list or a failed concat fails it.
//
// Strategies:
//   - auto_speedup keeps video timing; segments are mixed by package mixer.
//   - frame_blend stretches timestamps and blends frames with minterpolate.
//   - freeze_frame clones the last frame while longer audio finishes.
//   - rife densifies the slot with package rife before stretching it.
package timeline

// Package dubbing exposes the engine entry points: subtitle generation, clip
// alignment, video merging and the end-to-end dub pipeline.
//
// Engine maps the loaded config onto the component option structs so the
// components themselves never import config. Each entry point returns a
// services.Result and records the run in the history ledger when one is
// attached with WithHistory.
//
// MergeVideo dispatches on strategy: auto_speedup pre-aligns overlong clips
// and mixes them over the untouched video; frame_blend, freeze_frame and rife
// rebuild the video timeline around each clip's measured length.
package dubbing

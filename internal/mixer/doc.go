// Package mixer is the fast merge path: replacement clips are resampled to
// 44.1kHz, forced to stereo, boosted by a fixed gain and summed into one
// buffer exactly as long as the source video. The buffer is normalized only
// when its peak exceeds 1.0, then muxed with a copy of the original video
// stream.
package mixer

// Package ffmpeg wraps external process execution and builds the ffmpeg
// argument lists used by the aligner, timeline reconstructor and mixer.
//
// Every component talks to ffmpeg through the Runner interface so tests can
// substitute a fake. Argument builders always place the output path last.
package ffmpeg

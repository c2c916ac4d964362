// Package whisperx runs the WhisperX recogniser through uvx and loads its
// word-level JSON output as subtitle segments.
//
// The recogniser itself is an external collaborator; this package only builds
// its command line, extracts a mono 16kHz WAV when given video, and decodes
// the result. Configuration options (model, CUDA, VAD method) are passed via
// Config.
package whisperx

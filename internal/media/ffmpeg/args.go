package ffmpeg

import (
	"fmt"
	"strconv"
	"strings"
)

// Encoding carries the chunk render parameters shared by gap, segment and
// tail chunks.
type Encoding struct {
	VideoCodec   string
	VideoBitrate string
	Preset       string
	AudioCodec   string
	SampleRate   int
}

// DefaultEncoding returns the chunk render parameters: libx264 at 4M with the
// fast preset, stereo AAC at 44.1kHz.
func DefaultEncoding() Encoding {
	return Encoding{
		VideoCodec:   "libx264",
		VideoBitrate: "4M",
		Preset:       "fast",
		AudioCodec:   "aac",
		SampleRate:   44100,
	}
}

func (e Encoding) withDefaults() Encoding {
	def := DefaultEncoding()
	if e.VideoCodec == "" {
		e.VideoCodec = def.VideoCodec
	}
	if e.VideoBitrate == "" {
		e.VideoBitrate = def.VideoBitrate
	}
	if e.Preset == "" {
		e.Preset = def.Preset
	}
	if e.AudioCodec == "" {
		e.AudioCodec = def.AudioCodec
	}
	if e.SampleRate <= 0 {
		e.SampleRate = def.SampleRate
	}
	return e
}

func (e Encoding) outputArgs() []string {
	e = e.withDefaults()
	return []string{
		"-c:v", e.VideoCodec,
		"-b:v", e.VideoBitrate,
		"-preset", e.Preset,
		"-c:a", e.AudioCodec,
		"-ac", "2",
		"-ar", strconv.Itoa(e.SampleRate),
		"-shortest",
	}
}

// FormatSeconds renders a time offset for ffmpeg arguments.
func FormatSeconds(value float64) string {
	if value < 0 {
		value = 0
	}
	return strconv.FormatFloat(value, 'f', 3, 64)
}

// FormatFactor renders a multiplier without trailing noise.
func FormatFactor(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func baseArgs() []string {
	return []string{"-y", "-hide_banner", "-loglevel", "error"}
}

// SilenceSource returns the lavfi source for a stereo silent track.
func SilenceSource(sampleRate int) string {
	if sampleRate <= 0 {
		sampleRate = DefaultEncoding().SampleRate
	}
	return fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d", sampleRate)
}

// SilentChunkArgs renders [start, start+duration) of the source video with a
// silent audio track of matching duration.
func SilentChunkArgs(video string, start, duration float64, output string, enc Encoding) []string {
	enc = enc.withDefaults()
	args := baseArgs()
	args = append(args,
		"-ss", FormatSeconds(start),
		"-t", FormatSeconds(duration),
		"-i", video,
		"-f", "lavfi",
		"-t", FormatSeconds(duration),
		"-i", SilenceSource(enc.SampleRate),
		"-map", "0:v:0",
		"-map", "1:a:0",
	)
	args = append(args, enc.outputArgs()...)
	return append(args, output)
}

// VideoInput selects the video source of a segment chunk. A zero Duration
// reads the whole file.
type VideoInput struct {
	Path     string
	Start    float64
	Duration float64
}

func (v VideoInput) args() []string {
	var args []string
	if v.Duration > 0 {
		args = append(args, "-ss", FormatSeconds(v.Start), "-t", FormatSeconds(v.Duration))
	}
	return append(args, "-i", v.Path)
}

// SegmentChunkArgs renders the processed video stream muxed with the
// replacement audio. filter is applied to the video stream when non-empty.
func SegmentChunkArgs(video VideoInput, audio, filter, output string, enc Encoding) []string {
	args := baseArgs()
	args = append(args, video.args()...)
	args = append(args, "-i", audio)
	if strings.TrimSpace(filter) != "" {
		args = append(args, "-filter:v", filter)
	}
	args = append(args, "-map", "0:v:0", "-map", "1:a:0")
	args = append(args, enc.outputArgs()...)
	return append(args, output)
}

// ExtractVideoArgs extracts the audio-stripped video slot [start, start+duration).
func ExtractVideoArgs(video string, start, duration float64, output string, enc Encoding) []string {
	enc = enc.withDefaults()
	args := baseArgs()
	args = append(args,
		"-ss", FormatSeconds(start),
		"-t", FormatSeconds(duration),
		"-i", video,
		"-an",
		"-c:v", enc.VideoCodec,
		"-preset", enc.Preset,
	)
	return append(args, output)
}

// ConcatArgs concatenates the chunks listed in a concat manifest with a
// lossless stream copy.
func ConcatArgs(manifest, output string) []string {
	args := baseArgs()
	args = append(args,
		"-f", "concat",
		"-safe", "0",
		"-i", manifest,
		"-c", "copy",
	)
	return append(args, output)
}

// AtempoFilter renders a chain of tempo factors as an audio filter graph.
func AtempoFilter(chain []float64) string {
	parts := make([]string, 0, len(chain))
	for _, factor := range chain {
		parts = append(parts, "atempo="+FormatFactor(factor))
	}
	return strings.Join(parts, ",")
}

// AtempoArgs applies the tempo chain to input. An empty chain copies the
// audio unchanged.
func AtempoArgs(input string, chain []float64, output string) []string {
	args := baseArgs()
	args = append(args, "-i", input, "-vn")
	if filter := AtempoFilter(chain); filter != "" {
		args = append(args, "-filter:a", filter)
	} else {
		args = append(args, "-c:a", "copy")
	}
	return append(args, output)
}

// DecodeAudioArgs converts input to 16-bit PCM WAV at sampleRate, keeping its
// channel layout.
func DecodeAudioArgs(input string, sampleRate int, output string) []string {
	args := baseArgs()
	args = append(args,
		"-i", input,
		"-vn",
		"-c:a", "pcm_s16le",
		"-ar", strconv.Itoa(sampleRate),
	)
	return append(args, output)
}

// ReferenceClipArgs extracts a mono 24kHz PCM voice reference from the
// source's audio for [start, start+duration).
func ReferenceClipArgs(source string, start, duration float64, output string) []string {
	args := baseArgs()
	args = append(args,
		"-ss", FormatSeconds(start),
		"-t", FormatSeconds(duration),
		"-i", source,
		"-vn",
		"-c:a", "pcm_s16le",
		"-ac", "1",
		"-ar", "24000",
	)
	return append(args, output)
}

// MuxArgs pairs the untouched video stream of video with audio, truncating to
// the shorter stream.
func MuxArgs(video, audio, output string) []string {
	args := baseArgs()
	args = append(args,
		"-i", video,
		"-i", audio,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-shortest",
	)
	return append(args, output)
}

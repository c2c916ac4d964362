package ffprobe

import (
	"context"
	"fmt"

	"dubsync/internal/services"
)

// Prober measures media durations.
type Prober interface {
	// Duration returns the container duration of a media file in seconds.
	Duration(ctx context.Context, path string) (float64, error)
	// AudioDuration returns the duration of the first audio stream in seconds.
	AudioDuration(ctx context.Context, path string) (float64, error)
}

// Info summarizes a media file for display.
type Info struct {
	FormatName string  `json:"format_name"`
	Duration   float64 `json:"duration"`
	VideoCodec string  `json:"video_codec,omitempty"`
	AudioCodec string  `json:"audio_codec,omitempty"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	FrameRate  float64 `json:"frame_rate,omitempty"`
}

// CLI probes media with the ffprobe executable.
type CLI struct {
	Binary string
}

// NewCLI returns a prober that runs binary.
func NewCLI(binary string) CLI {
	return CLI{Binary: binary}
}

// Duration implements Prober.
func (c CLI) Duration(ctx context.Context, path string) (float64, error) {
	result, err := Inspect(ctx, c.Binary, path)
	if err != nil {
		return 0, services.Wrap(services.ErrProbe, "probe", "inspect", path, err)
	}
	return validDuration(path, result.Duration())
}

// AudioDuration implements Prober.
func (c CLI) AudioDuration(ctx context.Context, path string) (float64, error) {
	result, err := Inspect(ctx, c.Binary, path)
	if err != nil {
		return 0, services.Wrap(services.ErrProbe, "probe", "inspect", path, err)
	}
	return validDuration(path, result.AudioDuration())
}

// Analyze reports container format, duration, codecs and frame size.
func (c CLI) Analyze(ctx context.Context, path string) (Info, error) {
	result, err := Inspect(ctx, c.Binary, path)
	if err != nil {
		return Info{}, services.Wrap(services.ErrProbe, "probe", "inspect", path, err)
	}
	return Describe(result), nil
}

// Describe converts a probe result into Info.
func Describe(result Result) Info {
	info := Info{
		FormatName: result.Format.FormatName,
		Duration:   result.Duration(),
		FrameRate:  result.FrameRate(),
	}
	if video, ok := result.Stream("video"); ok {
		info.VideoCodec = video.CodecName
		info.Width = video.Width
		info.Height = video.Height
	}
	if audio, ok := result.Stream("audio"); ok {
		info.AudioCodec = audio.CodecName
	}
	return info
}

func validDuration(path string, value float64) (float64, error) {
	if value <= 0 {
		return 0, services.Wrap(services.ErrProbe, "probe", "duration", path, fmt.Errorf("no usable duration (got %v)", value))
	}
	return value, nil
}

package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var commandContext = exec.CommandContext

// showEntries limits ffprobe output to the fields Result decodes.
const showEntries = "format=format_name,duration:stream=codec_type,codec_name,width,height,r_frame_rate,duration"

// Result is the subset of ffprobe's JSON report used for timing.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

// Stream is one entry of the ffprobe streams array.
type Stream struct {
	CodecType  string `json:"codec_type"`
	CodecName  string `json:"codec_name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	Duration   string `json:"duration"`
}

// Inspect runs binary ("ffprobe" when blank) against path.
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe: empty path")
	}

	output, err := commandContext(ctx, binary,
		"-v", "error", "-hide_banner",
		"-show_entries", showEntries,
		"-of", "json", "--", path,
	).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return Result{}, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe: %w", err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe: decode output: %w", err)
	}
	return result, nil
}

// Stream returns the first stream of the given codec type.
func (r Result) Stream(codecType string) (Stream, bool) {
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, codecType) {
			return s, true
		}
	}
	return Stream{}, false
}

// Duration is the container duration in seconds; 0 when absent or malformed.
func (r Result) Duration() float64 {
	return seconds(r.Format.Duration)
}

// AudioDuration prefers the first audio stream's own duration and falls back
// to the container's.
func (r Result) AudioDuration() float64 {
	if s, ok := r.Stream("audio"); ok {
		if d := seconds(s.Duration); d > 0 {
			return d
		}
	}
	return r.Duration()
}

// FrameRate evaluates the first video stream's r_frame_rate ("30000/1001").
func (r Result) FrameRate() float64 {
	s, ok := r.Stream("video")
	if !ok {
		return 0
	}
	num, den, isRatio := strings.Cut(s.RFrameRate, "/")
	if !isRatio {
		return seconds(num)
	}
	if d := seconds(den); d > 0 {
		return seconds(num) / d
	}
	return 0
}

func seconds(value string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

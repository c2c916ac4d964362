package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"testing"

	"dubsync/internal/services"
)

const sampleProbe = `{
  "streams": [
    {"codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001", "duration": "5.005"},
    {"codec_name": "aac", "codec_type": "audio", "duration": "4.992"}
  ],
  "format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "5.000"}
}`

func TestResultDurations(t *testing.T) {
	tests := []struct {
		name      string
		result    Result
		container float64
		audio     float64
	}{
		{
			name:      "audio stream duration preferred",
			result:    decodeSample(t, sampleProbe),
			container: 5.0,
			audio:     4.992,
		},
		{
			name:      "audio falls back to container",
			result:    decodeSample(t, `{"streams":[{"codec_type":"audio"}],"format":{"duration":"123.45"}}`),
			container: 123.45,
			audio:     123.45,
		},
		{
			name:   "malformed values read as zero",
			result: decodeSample(t, `{"streams":[{"codec_type":"audio","duration":"N/A"}],"format":{"duration":"bad"}}`),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.result.Duration(); got != tc.container {
				t.Errorf("Duration = %v, want %v", got, tc.container)
			}
			if got := tc.result.AudioDuration(); got != tc.audio {
				t.Errorf("AudioDuration = %v, want %v", got, tc.audio)
			}
		})
	}
}

func TestResultFrameRate(t *testing.T) {
	for raw, want := range map[string]float64{"24/1": 24, "25": 25, "30000/0": 0, "": 0} {
		r := Result{Streams: []Stream{{CodecType: "video", RFrameRate: raw}}}
		if got := r.FrameRate(); got != want {
			t.Errorf("FrameRate(%q) = %v, want %v", raw, got, want)
		}
	}
	if got := (Result{}).FrameRate(); got != 0 {
		t.Errorf("FrameRate without video = %v", got)
	}
}

func decodeSample(t *testing.T, payload string) Result {
	t.Helper()
	var r Result
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	return r
}

func setHelperCommand(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", fmt.Sprintf("FFPROBE_HELPER_MODE=%s", mode))
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestCLIProbesDurations(t *testing.T) {
	setHelperCommand(t, "success")
	cli := NewCLI("ffprobe")

	dur, err := cli.Duration(context.Background(), "movie.mp4")
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if dur != 5.0 {
		t.Fatalf("unexpected duration %v", dur)
	}
	audio, err := cli.AudioDuration(context.Background(), "movie.mp4")
	if err != nil {
		t.Fatalf("AudioDuration: %v", err)
	}
	if audio != 4.992 {
		t.Fatalf("expected audio stream duration, got %v", audio)
	}
}

func TestCLIAnalyze(t *testing.T) {
	setHelperCommand(t, "success")

	info, err := NewCLI("").Analyze(context.Background(), "movie.mp4")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if info.VideoCodec != "h264" || info.AudioCodec != "aac" {
		t.Fatalf("unexpected codecs: %+v", info)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Fatalf("unexpected size: %+v", info)
	}
	if math.Abs(info.FrameRate-29.97) > 0.01 {
		t.Fatalf("unexpected frame rate %v", info.FrameRate)
	}
}

func TestCLIFailureIsProbeError(t *testing.T) {
	setHelperCommand(t, "failure")

	_, err := NewCLI("ffprobe").Duration(context.Background(), "missing.mp4")
	if !errors.Is(err, services.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
}

func TestCLIRejectsZeroDuration(t *testing.T) {
	setHelperCommand(t, "empty")

	_, err := NewCLI("ffprobe").Duration(context.Background(), "empty.mp4")
	if !errors.Is(err, services.ErrProbe) {
		t.Fatalf("expected ErrProbe for zero duration, got %v", err)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("FFPROBE_HELPER_MODE") {
	case "success":
		fmt.Print(sampleProbe)
		os.Exit(0)
	case "empty":
		fmt.Print(`{"streams":[],"format":{"duration":"0"}}`)
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "missing.mp4: No such file or directory")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}

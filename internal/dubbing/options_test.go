package dubbing

import (
	"testing"

	"dubsync/internal/config"
)

func TestConfigMapsOntoComponentOptions(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WorkDir = "/tmp/work"
	cfg.Subtitles.MaxCueChars = 42
	cfg.Subtitles.InternalDelay = -0.2
	cfg.Subtitles.MaxWord = 2
	cfg.Sync.TempoMax = 1.5
	cfg.Sync.ScaleTolerance = 0.05
	cfg.Sync.Preset = "slow"
	cfg.Mixer.Gain = 1.0

	seg := segmenterOptions(&cfg)
	if seg.MaxChars != 42 || seg.InternalDelay != -0.2 || seg.Repair.MaxWord != 2 {
		t.Fatalf("unexpected segmenter options %+v", seg)
	}
	if b := alignerBounds(&cfg); b.Min != 0.5 || b.Max != 1.5 || b.Epsilon != 0.01 {
		t.Fatalf("unexpected bounds %+v", b)
	}
	tl := timelineOptions(&cfg)
	if tl.WorkDir != "/tmp/work" || tl.ScaleTolerance != 0.05 || tl.Encoding.Preset != "slow" || tl.FFmpeg != "ffmpeg" {
		t.Fatalf("unexpected timeline options %+v", tl)
	}
	if mx := mixerOptions(&cfg); mx.Gain != 1.0 || mx.SampleRate != 44100 || mx.WorkDir != "/tmp/work" {
		t.Fatalf("unexpected mixer options %+v", mx)
	}
}

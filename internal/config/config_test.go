package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"dubsync/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("DUBSYNC_WORK_DIR", "")
	t.Setenv("DUBSYNC_RIFE_PATH", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "dubsync", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Sync.Strategy != "auto_speedup" {
		t.Fatalf("unexpected default strategy %q", cfg.Sync.Strategy)
	}
	if cfg.Subtitles.InternalDelay != -0.35 || cfg.Subtitles.TailPad != 0.2 {
		t.Fatalf("unexpected timing polish defaults: %+v", cfg.Subtitles)
	}
	if cfg.Mixer.SampleRate != 44100 || cfg.Mixer.Gain != 1.2 {
		t.Fatalf("unexpected mixer defaults: %+v", cfg.Mixer)
	}
	if cfg.Tools.RIFEModel != "rife-v4.6" {
		t.Fatalf("unexpected rife model %q", cfg.Tools.RIFEModel)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("DUBSYNC_WORK_DIR", "")

	configPath := filepath.Join(tempHome, "config.toml")
	content := `
[paths]
work_dir = "~/scratch"

[sync]
strategy = " Frame_Blend "
video_bitrate = "6M"

[subtitles]
max_cue_chars = 42

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected explicit config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.WorkDir != filepath.Join(tempHome, "scratch") {
		t.Fatalf("unexpected work dir %q", cfg.Paths.WorkDir)
	}
	if cfg.Sync.Strategy != "frame_blend" {
		t.Fatalf("strategy not normalized: %q", cfg.Sync.Strategy)
	}
	if cfg.Sync.VideoBitrate != "6M" {
		t.Fatalf("unexpected bitrate %q", cfg.Sync.VideoBitrate)
	}
	if cfg.Subtitles.MaxCueChars != 42 {
		t.Fatalf("unexpected max cue chars %d", cfg.Subtitles.MaxCueChars)
	}
	if cfg.Subtitles.MergeGap != 0.1 {
		t.Fatalf("unset fields should keep defaults, got merge gap %v", cfg.Subtitles.MergeGap)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownStrategy(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(configPath, []byte("[sync]\nstrategy = \"warp\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "sync.strategy") {
		t.Fatalf("expected strategy validation error, got %v", err)
	}
}

func TestEnvironmentFallbacks(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	rife := filepath.Join(tempHome, "bin", "rife-ncnn-vulkan")
	work := filepath.Join(tempHome, "work")
	t.Setenv("DUBSYNC_RIFE_PATH", rife)
	t.Setenv("DUBSYNC_WORK_DIR", work)
	t.Setenv("DUBSYNC_TRANSLATOR_API_KEY", " secret ")

	cfg, _, _, err := config.Load(filepath.Join(tempHome, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Tools.RIFEBinary != rife {
		t.Fatalf("expected rife path from env, got %q", cfg.Tools.RIFEBinary)
	}
	if cfg.Paths.WorkDir != work {
		t.Fatalf("expected work dir from env, got %q", cfg.Paths.WorkDir)
	}
	if cfg.Translator.APIKey != "secret" {
		t.Fatalf("expected translator key from env, got %q", cfg.Translator.APIKey)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"max chars", func(c *config.Config) { c.Subtitles.MaxCueChars = 0 }, "max_cue_chars"},
		{"tempo bounds", func(c *config.Config) { c.Sync.TempoMax = 1 }, "tempo_max"},
		{"min cue", func(c *config.Config) { c.Subtitles.MinCue = 0 }, "min_cue"},
		{"sample rate", func(c *config.Config) { c.Mixer.SampleRate = -1 }, "sample_rate"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"tts placeholders", func(c *config.Config) { c.TTS.Command = []string{"say", "{text}"} }, "{output}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleParsesAndValidates(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	if decoded.Sync.Strategy != "auto_speedup" {
		t.Fatalf("unexpected sample strategy %q", decoded.Sync.Strategy)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
}

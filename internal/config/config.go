package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir   string `toml:"work_dir"`
	LogDir    string `toml:"log_dir"`
	HistoryDB string `toml:"history_db"`
}

// Tools names the external executables the engine drives.
type Tools struct {
	FFmpeg         string   `toml:"ffmpeg"`
	FFprobe        string   `toml:"ffprobe"`
	RIFEBinary     string   `toml:"rife_binary"`
	RIFEModel      string   `toml:"rife_model"`
	RIFESearchDirs []string `toml:"rife_search_dirs"`
}

// WhisperX contains configuration for the speech recogniser adapter.
type WhisperX struct {
	Model       string `toml:"model"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
	VADMethod   string `toml:"vad_method"`
	HFToken     string `toml:"hf_token"`
	Language    string `toml:"language"`
}

// Subtitles contains cue segmentation and timing polish settings. All
// durations are seconds.
type Subtitles struct {
	MaxCueChars   int     `toml:"max_cue_chars"`
	MergeGap      float64 `toml:"merge_gap"`
	NominalWord   float64 `toml:"nominal_word"`
	MinWord       float64 `toml:"min_word"`
	MaxWord       float64 `toml:"max_word"`
	LeadInLimit   float64 `toml:"lead_in_limit"`
	InternalDelay float64 `toml:"internal_delay"`
	TailPad       float64 `toml:"tail_pad"`
	MinCue        float64 `toml:"min_cue"`
}

// Sync contains timeline reconstruction and tempo alignment settings.
type Sync struct {
	Strategy       string  `toml:"strategy"`
	TempoMin       float64 `toml:"tempo_min"`
	TempoMax       float64 `toml:"tempo_max"`
	TempoEpsilon   float64 `toml:"tempo_epsilon"`
	GapThreshold   float64 `toml:"gap_threshold"`
	TailThreshold  float64 `toml:"tail_threshold"`
	ScaleTolerance float64 `toml:"scale_tolerance"`
	MinSlot        float64 `toml:"min_slot"`
	SlotFallback   float64 `toml:"slot_fallback"`
	PrealignSlack  float64 `toml:"prealign_slack"`
	VideoBitrate   string  `toml:"video_bitrate"`
	Preset         string  `toml:"preset"`
}

// Mixer contains sample mixer settings.
type Mixer struct {
	SampleRate int     `toml:"sample_rate"`
	Gain       float64 `toml:"gain"`
}

// Translator contains configuration for the chat model used by the dub
// pipeline to translate recognised lines.
type Translator struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// TTS describes the external voice-cloning command. Each argument may use the
// placeholders {text}, {ref}, {output} and {lang}.
type TTS struct {
	Command []string `toml:"command"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for dubsync.
//
// Configuration sections by subsystem:
//   - Paths: work, log and history locations
//   - Tools: ffmpeg, ffprobe and frame interpolator executables
//   - WhisperX: recogniser invocation
//   - Subtitles: cue segmentation and timing polish
//   - Sync: re-timing strategy, tempo bounds and chunk thresholds
//   - Mixer: sample rate and clip gain for the fast path
//   - Translator, TTS: back-ends for the dub pipeline
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Tools      Tools      `toml:"tools"`
	WhisperX   WhisperX   `toml:"whisperx"`
	Subtitles  Subtitles  `toml:"subtitles"`
	Sync       Sync       `toml:"sync"`
	Mixer      Mixer      `toml:"mixer"`
	Translator Translator `toml:"translator"`
	TTS        TTS        `toml:"tts"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dubsync.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Paths.HistoryDB != "" {
		if err := os.MkdirAll(filepath.Dir(c.Paths.HistoryDB), 0o755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	if c.Tools.FFmpeg == "" {
		return defaultFFmpeg
	}
	return c.Tools.FFmpeg
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	if c.Tools.FFprobe == "" {
		return defaultFFprobe
	}
	return c.Tools.FFprobe
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.normalizeWhisperX()
	c.normalizeSync()
	c.normalizeTranslator()
	c.normalizeTTS()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("DUBSYNC_WORK_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.WorkDir = value
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = os.TempDir()
	}

	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.HistoryDB, err = expandPath(strings.TrimSpace(c.Paths.HistoryDB)); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() error {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpeg
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobe
	}
	c.Tools.RIFEModel = strings.TrimSpace(c.Tools.RIFEModel)
	if c.Tools.RIFEModel == "" {
		c.Tools.RIFEModel = defaultRIFEModel
	}

	if c.Tools.RIFEBinary == "" {
		if value, ok := os.LookupEnv("DUBSYNC_RIFE_PATH"); ok {
			c.Tools.RIFEBinary = value
		}
	}
	var err error
	if c.Tools.RIFEBinary, err = expandPath(strings.TrimSpace(c.Tools.RIFEBinary)); err != nil {
		return fmt.Errorf("tools.rife_binary: %w", err)
	}

	dirs := make([]string, 0, len(c.Tools.RIFESearchDirs))
	for _, dir := range c.Tools.RIFESearchDirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		expanded, err := expandPath(dir)
		if err != nil {
			return fmt.Errorf("tools.rife_search_dirs: %w", err)
		}
		dirs = append(dirs, expanded)
	}
	c.Tools.RIFESearchDirs = dirs
	return nil
}

func (c *Config) normalizeWhisperX() {
	c.WhisperX.Model = strings.TrimSpace(c.WhisperX.Model)
	if c.WhisperX.Model == "" {
		c.WhisperX.Model = defaultWhisperXModel
	}
	c.WhisperX.VADMethod = strings.ToLower(strings.TrimSpace(c.WhisperX.VADMethod))
	if c.WhisperX.VADMethod == "" {
		c.WhisperX.VADMethod = defaultWhisperXVADMethod
	}
	if c.WhisperX.HFToken == "" {
		if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.WhisperX.HFToken = strings.TrimSpace(value)
		}
	}
	c.WhisperX.Language = strings.ToLower(strings.TrimSpace(c.WhisperX.Language))
}

func (c *Config) normalizeSync() {
	c.Sync.Strategy = strings.ToLower(strings.TrimSpace(c.Sync.Strategy))
	if c.Sync.Strategy == "" {
		c.Sync.Strategy = defaultStrategy
	}
	c.Sync.VideoBitrate = strings.TrimSpace(c.Sync.VideoBitrate)
	if c.Sync.VideoBitrate == "" {
		c.Sync.VideoBitrate = defaultVideoBitrate
	}
	c.Sync.Preset = strings.ToLower(strings.TrimSpace(c.Sync.Preset))
	if c.Sync.Preset == "" {
		c.Sync.Preset = defaultPreset
	}
	if c.Mixer.SampleRate == 0 {
		c.Mixer.SampleRate = defaultSampleRate
	}
}

func (c *Config) normalizeTranslator() {
	if c.Translator.APIKey == "" {
		if value, ok := os.LookupEnv("DUBSYNC_TRANSLATOR_API_KEY"); ok {
			c.Translator.APIKey = value
		}
	}
	c.Translator.APIKey = strings.TrimSpace(c.Translator.APIKey)
	c.Translator.BaseURL = strings.TrimSpace(c.Translator.BaseURL)
	c.Translator.Model = strings.TrimSpace(c.Translator.Model)
	if c.Translator.TimeoutSeconds <= 0 {
		c.Translator.TimeoutSeconds = defaultTranslatorTimeout
	}
}

func (c *Config) normalizeTTS() {
	args := make([]string, 0, len(c.TTS.Command))
	for _, arg := range c.TTS.Command {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	c.TTS.Command = args
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "text", "pretty":
		c.Logging.Format = "console"
	default:
		c.Logging.Format = format
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

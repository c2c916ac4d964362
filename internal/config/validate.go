package config

import (
	"errors"
	"fmt"
	"strings"
)

var knownStrategies = map[string]struct{}{
	"auto_speedup": {},
	"frame_blend":  {},
	"freeze_frame": {},
	"rife":         {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateMixer(); err != nil {
		return err
	}
	if err := c.validateTTS(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSubtitles() error {
	s := c.Subtitles
	if s.MaxCueChars <= 0 {
		return errors.New("subtitles.max_cue_chars must be positive")
	}
	if s.MergeGap < 0 {
		return errors.New("subtitles.merge_gap must be >= 0")
	}
	if s.NominalWord <= 0 || s.MinWord <= 0 || s.MaxWord <= 0 {
		return errors.New("subtitles.nominal_word, min_word and max_word must be positive")
	}
	if s.MinWord > s.MaxWord {
		return errors.New("subtitles.min_word must not exceed subtitles.max_word")
	}
	if s.LeadInLimit < 0 {
		return errors.New("subtitles.lead_in_limit must be >= 0")
	}
	if s.TailPad < 0 {
		return errors.New("subtitles.tail_pad must be >= 0")
	}
	if s.MinCue <= 0 {
		return errors.New("subtitles.min_cue must be positive")
	}
	return nil
}

func (c *Config) validateSync() error {
	s := c.Sync
	if _, ok := knownStrategies[s.Strategy]; !ok {
		return fmt.Errorf("sync.strategy: unknown value %q (want auto_speedup, frame_blend, freeze_frame or rife)", s.Strategy)
	}
	if s.TempoMin <= 0 || s.TempoMax <= 1 || s.TempoMin >= 1 {
		return errors.New("sync.tempo_min must be in (0,1) and sync.tempo_max must exceed 1")
	}
	if s.TempoEpsilon < 0 {
		return errors.New("sync.tempo_epsilon must be >= 0")
	}
	if s.GapThreshold < 0 || s.TailThreshold < 0 {
		return errors.New("sync.gap_threshold and sync.tail_threshold must be >= 0")
	}
	if s.ScaleTolerance < 0 || s.ScaleTolerance >= 1 {
		return errors.New("sync.scale_tolerance must be in [0,1)")
	}
	if s.SlotFallback <= 0 {
		return errors.New("sync.slot_fallback must be positive")
	}
	if s.MinSlot < 0 {
		return errors.New("sync.min_slot must be >= 0")
	}
	if s.PrealignSlack < 0 {
		return errors.New("sync.prealign_slack must be >= 0")
	}
	return nil
}

func (c *Config) validateMixer() error {
	if c.Mixer.SampleRate <= 0 {
		return errors.New("mixer.sample_rate must be positive")
	}
	if c.Mixer.Gain <= 0 {
		return errors.New("mixer.gain must be positive")
	}
	return nil
}

func (c *Config) validateTTS() error {
	if len(c.TTS.Command) == 0 {
		return nil
	}
	joined := strings.Join(c.TTS.Command[1:], " ")
	for _, placeholder := range []string{"{text}", "{output}"} {
		if !strings.Contains(joined, placeholder) {
			return fmt.Errorf("tts.command must reference %s", placeholder)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

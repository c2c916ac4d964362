package dubbing

import (
	"dubsync/internal/align"
	"dubsync/internal/config"
	"dubsync/internal/media/ffmpeg"
	"dubsync/internal/mixer"
	"dubsync/internal/subtitles"
	"dubsync/internal/timeline"
)

func segmenterOptions(cfg *config.Config) subtitles.Options {
	s := cfg.Subtitles
	return subtitles.Options{
		MaxChars:      s.MaxCueChars,
		MergeGap:      s.MergeGap,
		LeadInLimit:   s.LeadInLimit,
		InternalDelay: s.InternalDelay,
		TailPad:       s.TailPad,
		MinCue:        s.MinCue,
		Repair: subtitles.RepairOptions{
			NominalWord: s.NominalWord,
			MinWord:     s.MinWord,
			MaxWord:     s.MaxWord,
		},
	}
}

func alignerBounds(cfg *config.Config) align.Bounds {
	return align.Bounds{
		Min:     cfg.Sync.TempoMin,
		Max:     cfg.Sync.TempoMax,
		Epsilon: cfg.Sync.TempoEpsilon,
	}
}

func timelineOptions(cfg *config.Config) timeline.Options {
	s := cfg.Sync
	return timeline.Options{
		FFmpeg:  cfg.FFmpegBinary(),
		WorkDir: cfg.Paths.WorkDir,
		Encoding: ffmpeg.Encoding{
			VideoBitrate: s.VideoBitrate,
			Preset:       s.Preset,
			SampleRate:   cfg.Mixer.SampleRate,
		},
		GapThreshold:   s.GapThreshold,
		TailThreshold:  s.TailThreshold,
		ScaleTolerance: s.ScaleTolerance,
		MinSlot:        s.MinSlot,
		SlotFallback:   s.SlotFallback,
	}
}

func mixerOptions(cfg *config.Config) mixer.Options {
	return mixer.Options{
		FFmpeg:     cfg.FFmpegBinary(),
		WorkDir:    cfg.Paths.WorkDir,
		SampleRate: cfg.Mixer.SampleRate,
		Gain:       cfg.Mixer.Gain,
	}
}

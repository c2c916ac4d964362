package config

const (
	defaultConfigPath = "~/.config/dubsync/config.toml"
	defaultWorkDir    = "~/.local/share/dubsync/work"
	defaultLogDir     = "~/.local/share/dubsync/logs"
	defaultHistoryDB  = "~/.local/share/dubsync/history.db"
	defaultFFmpeg     = "ffmpeg"
	defaultFFprobe    = "ffprobe"
	defaultRIFEModel  = "rife-v4.6"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	defaultWhisperXModel     = "large-v3"
	defaultWhisperXVADMethod = "silero"

	defaultStrategy     = "auto_speedup"
	defaultVideoBitrate = "4M"
	defaultPreset       = "fast"
	defaultSampleRate   = 44100

	defaultTranslatorTimeout = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
		},
		Tools: Tools{
			FFmpeg:    defaultFFmpeg,
			FFprobe:   defaultFFprobe,
			RIFEModel: defaultRIFEModel,
		},
		WhisperX: WhisperX{
			Model:     defaultWhisperXModel,
			VADMethod: defaultWhisperXVADMethod,
		},
		Subtitles: Subtitles{
			MaxCueChars:   30,
			MergeGap:      0.1,
			NominalWord:   0.3,
			MinWord:       0.05,
			MaxWord:       1.5,
			LeadInLimit:   0.5,
			InternalDelay: -0.35,
			TailPad:       0.2,
			MinCue:        0.1,
		},
		Sync: Sync{
			Strategy:       defaultStrategy,
			TempoMin:       0.5,
			TempoMax:       2.0,
			TempoEpsilon:   0.01,
			GapThreshold:   0.05,
			TailThreshold:  0.1,
			ScaleTolerance: 0.02,
			MinSlot:        0.05,
			SlotFallback:   0.1,
			PrealignSlack:  0.1,
			VideoBitrate:   defaultVideoBitrate,
			Preset:         defaultPreset,
		},
		Mixer: Mixer{
			SampleRate: defaultSampleRate,
			Gain:       1.2,
		},
		Translator: Translator{
			TimeoutSeconds: defaultTranslatorTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

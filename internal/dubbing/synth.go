package dubbing

import (
	"context"
	"os"
	"strings"
	"time"

	"dubsync/internal/config"
	"dubsync/internal/language"
	"dubsync/internal/media/ffmpeg"
	"dubsync/internal/services"
	"dubsync/internal/services/llm"
	"dubsync/internal/services/whisperx"
)

// CommandSynthesizer runs an external voice-cloning command per line. Each
// argument may contain {text}, {ref}, {output} and {lang}.
type CommandSynthesizer struct {
	Runner   ffmpeg.Runner
	Command  []string
	Language string
}

// Synthesize implements Synthesizer.
func (s CommandSynthesizer) Synthesize(ctx context.Context, text, refAudio, output string) error {
	if len(s.Command) == 0 {
		return services.Wrap(services.ErrConfiguration, "tts", "synthesize", "tts.command is not configured", nil)
	}
	replacer := strings.NewReplacer(
		"{text}", text,
		"{ref}", refAudio,
		"{output}", output,
		"{lang}", s.Language,
	)
	args := make([]string, 0, len(s.Command)-1)
	for _, arg := range s.Command[1:] {
		args = append(args, replacer.Replace(arg))
	}
	if _, err := s.Runner.Run(ctx, s.Command[0], args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "tts", "synthesize", s.Command[0], err)
	}
	info, err := os.Stat(output)
	if err != nil || info.Size() == 0 {
		return services.Wrap(services.ErrExternalTool, "tts", "synthesize", "command produced no audio at "+output, err)
	}
	return nil
}

// NewPipeline wires the WhisperX recogniser, the chat-model translator and the
// configured TTS command around engine.
func NewPipeline(cfg *config.Config, engine *Engine, targetLang string) *Pipeline {
	wx := whisperx.NewService(whisperx.Config{
		Model:       cfg.WhisperX.Model,
		CUDAEnabled: cfg.WhisperX.CUDAEnabled,
		VADMethod:   cfg.WhisperX.VADMethod,
		HFToken:     cfg.WhisperX.HFToken,
		Language:    cfg.WhisperX.Language,
	}, cfg.FFmpegBinary())

	translator := llm.NewClient(llm.Config{
		APIKey:  cfg.Translator.APIKey,
		BaseURL: cfg.Translator.BaseURL,
		Model:   cfg.Translator.Model,
		AppName: "dubsync",
		Timeout: time.Duration(cfg.Translator.TimeoutSeconds) * time.Second,
	})

	return &Pipeline{
		Engine:      engine,
		Transcriber: wx,
		Translator:  translator,
		Synthesizer: CommandSynthesizer{
			Runner:   engine.runner,
			Command:  cfg.TTS.Command,
			Language: language.Code(targetLang),
		},
	}
}

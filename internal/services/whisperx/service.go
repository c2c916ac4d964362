package whisperx

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"dubsync/internal/language"
	"dubsync/internal/subtitles"
)

// Runner executes an external command. Tests replace it to avoid spawning
// uvx or ffmpeg.
type Runner func(ctx context.Context, name string, args ...string) error

// Service transcribes media with WhisperX.
type Service struct {
	cfg    Config
	ffmpeg string
	runner Runner
}

// NewService returns a Service that extracts audio with ffmpegBinary
// ("ffmpeg" when empty).
func NewService(cfg Config, ffmpegBinary string) *Service {
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Service{cfg: cfg, ffmpeg: ffmpegBinary, runner: execRunner}
}

// WithCommandRunner replaces the command runner.
func (s *Service) WithCommandRunner(runner Runner) {
	s.runner = runner
}

func execRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	// torch >= 2.6 defaults to weights_only loads, which pyannote checkpoints fail.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// ExtractAudio writes the first audio stream of source to dest as mono
// 16 kHz PCM WAV.
func (s *Service) ExtractAudio(ctx context.Context, source, dest string) error {
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("extract audio: source path required")
	}
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", source,
		"-map", "0:a:0", "-vn", "-sn", "-dn",
		"-ac", "1", "-ar", "16000", "-c:a", "pcm_s16le",
		dest,
	}
	if err := s.runner(ctx, s.ffmpeg, args...); err != nil {
		return fmt.Errorf("ffmpeg extract: %w", err)
	}
	return nil
}

// Transcribe runs WhisperX on media and returns its word-level segments.
// Anything other than a .wav is first reduced to asr_input.wav in workDir.
// An empty lang falls back to Config.Language.
func (s *Service) Transcribe(ctx context.Context, media, workDir, lang string) ([]subtitles.Segment, error) {
	if strings.TrimSpace(media) == "" {
		return nil, fmt.Errorf("transcribe: source path required")
	}
	if workDir == "" {
		return nil, fmt.Errorf("transcribe: workDir required")
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure workDir: %w", err)
	}

	source := media
	if !strings.EqualFold(filepath.Ext(media), ".wav") {
		source = filepath.Join(workDir, "asr_input.wav")
		if err := s.ExtractAudio(ctx, media, source); err != nil {
			return nil, fmt.Errorf("transcribe: %w", err)
		}
	}
	if strings.TrimSpace(lang) == "" {
		lang = s.cfg.Language
	}

	if err := s.runner(ctx, UVXCommand, s.buildArgs(source, workDir, lang)...); err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}
	// WhisperX names its outputs after the input's base name.
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	segments, err := subtitles.LoadSegments(filepath.Join(workDir, stem+".json"))
	if err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}
	return segments, nil
}

func (s *Service) buildArgs(source, outputDir, lang string) []string {
	args := append(s.cfg.indexArgs(), "whisperx", source,
		"--model", s.cfg.model(),
		"--output_dir", outputDir,
	)
	for _, f := range decodeFlags {
		args = append(args, f[0], f[1])
	}
	vad := s.cfg.vadMethod()
	args = append(args, "--vad_method", vad)
	if vad == VADMethodPyannote && s.cfg.HFToken != "" {
		args = append(args, "--hf_token", s.cfg.HFToken)
	}
	if code := isoLanguage(lang); code != "" {
		args = append(args, "--language", code)
	}
	return append(args, s.cfg.deviceArgs()...)
}

// isoLanguage reduces tags such as "en-US", "zh_CN" or "Spanish" to a
// two-letter code, or "" when nothing sensible remains.
func isoLanguage(value string) string {
	value = strings.TrimSpace(value)
	if i := strings.IndexAny(value, "-_"); i > 0 {
		value = value[:i]
	}
	if code := language.Code(value); len(code) == 2 {
		return code
	}
	return ""
}

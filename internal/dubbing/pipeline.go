package dubbing

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"dubsync/internal/align"
	"dubsync/internal/fileutil"
	"dubsync/internal/history"
	"dubsync/internal/language"
	"dubsync/internal/logging"
	"dubsync/internal/manifest"
	"dubsync/internal/media/ffmpeg"
	"dubsync/internal/services"
	"dubsync/internal/subtitles"
	"dubsync/internal/timeline"
)

// Transcriber recognises speech in a media file.
type Transcriber interface {
	Transcribe(ctx context.Context, media, workDir, language string) ([]subtitles.Segment, error)
}

// Translator renders one line in another language.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Synthesizer speaks text in the voice of refAudio, writing a WAV to output.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, refAudio, output string) error
}

// Pipeline runs the full dub: transcribe, translate, clone the voice per line
// and merge the result into the video.
type Pipeline struct {
	Engine      *Engine
	Transcriber Transcriber
	Translator  Translator
	Synthesizer Synthesizer
}

// DubRequest describes one dubbing run.
type DubRequest struct {
	Video          string
	Output         string
	SourceLanguage string
	TargetLanguage string
	// Strategy defaults to the configured sync strategy.
	Strategy string
	// Subtitles, when set, is an SRT in the source language used instead of
	// transcribing the video.
	Subtitles string
}

// SegmentsDir returns the directory holding the per-line clips for output.
func SegmentsDir(output string) string {
	base := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	return filepath.Join(filepath.Dir(output), base+"_segments")
}

// Dub produces a dubbed copy of req.Video at req.Output. Lines whose
// translation, reference clip or synthesis fails are left out; the run fails
// only when no line survives or the merge fails.
func (p *Pipeline) Dub(ctx context.Context, req DubRequest) services.Result {
	e := p.Engine
	ctx, runID := e.startRun(ctx, "dub")
	run := history.Run{
		ID:        runID,
		Kind:      history.KindDub,
		Video:     req.Video,
		Output:    req.Output,
		StartedAt: e.now(),
	}

	result := p.dub(ctx, req, &run)
	result.RunID = runID
	e.finish(ctx, run, result)
	return result
}

func (p *Pipeline) dub(ctx context.Context, req DubRequest, run *history.Run) services.Result {
	e := p.Engine
	logger := logging.WithContext(ctx, e.logger)

	if (p.Transcriber == nil && req.Subtitles == "") || p.Translator == nil || p.Synthesizer == nil {
		return services.Failure(services.Wrap(services.ErrConfiguration, "dub", "pipeline",
			"transcriber, translator and synthesizer are required", nil))
	}
	if strings.TrimSpace(req.Video) == "" || strings.TrimSpace(req.Output) == "" {
		return services.Failure(services.Wrap(services.ErrValidation, "dub", "request", "video and output are required", nil))
	}
	if strings.TrimSpace(req.TargetLanguage) == "" {
		return services.Failure(services.Wrap(services.ErrValidation, "dub", "request", "target language is required", nil))
	}
	name := strings.TrimSpace(req.Strategy)
	if name == "" {
		name = e.cfg.Sync.Strategy
	}
	strategy, err := timeline.ParseStrategy(name)
	if err != nil {
		return services.Failure(err)
	}

	segDir := SegmentsDir(req.Output)
	if err := os.RemoveAll(segDir); err != nil {
		return services.Failure(services.Wrap(services.ErrValidation, "dub", "reset segments dir", segDir, err))
	}
	if err := os.MkdirAll(segDir, 0o755); err != nil {
		return services.Failure(services.Wrap(services.ErrValidation, "dub", "create segments dir", segDir, err))
	}
	cacheDir := filepath.Join(filepath.Dir(req.Output), ".cache")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return services.Failure(services.Wrap(services.ErrValidation, "dub", "create cache dir", cacheDir, err))
	}

	transcribeCtx := services.WithStage(ctx, "transcribe")
	var lines []subtitles.Cue
	if req.Subtitles != "" {
		lines, err = subtitles.LoadSRT(req.Subtitles)
		if err != nil {
			marker := services.ErrValidation
			if errors.Is(err, fs.ErrNotExist) {
				marker = services.ErrNotFound
			}
			return services.Failure(services.Wrap(marker, "dub", "load subtitles", req.Subtitles, err))
		}
	} else {
		segments, err := p.Transcriber.Transcribe(transcribeCtx, req.Video, cacheDir, language.Code(req.SourceLanguage))
		if err != nil {
			return services.Failure(services.Wrap(services.ErrExternalTool, "dub", "transcribe", req.Video, err))
		}
		lines = e.segment(segments)
		if len(lines) > 0 {
			base := strings.TrimSuffix(filepath.Base(req.Output), filepath.Ext(req.Output))
			if res := e.writeCues(transcribeCtx, lines, len(segments), filepath.Join(segDir, base+".srt")); !res.Succeeded() {
				logging.WarnWithContext(logger, "source subtitles not written", "dub_subtitles_failed",
					logging.String("message", res.Message),
					logging.String(logging.FieldImpact, "no source-language SRT beside the dubbed clips"),
				)
			}
		}
	}
	if len(lines) == 0 {
		return services.Failure(services.Wrap(services.ErrValidation, "dub", "transcribe", "no speech detected", nil))
	}
	logger.Info("source lines ready", logging.Int("lines", len(lines)), logging.Bool("from_srt", req.Subtitles != ""))

	clips := make([]manifest.AudioSegment, 0, len(lines))
	for idx, line := range lines {
		if err := ctx.Err(); err != nil {
			return services.Failure(err)
		}
		clip, ok := p.dubLine(services.WithChunkIndex(ctx, idx), req, strategy, segDir, idx, line)
		if ok {
			clips = append(clips, clip)
		}
	}
	if len(clips) == 0 {
		return services.Failure(services.Wrap(services.ErrMerge, "dub", "synthesize", "no dubbed lines were produced", nil))
	}

	manifestPath := filepath.Join(segDir, "segments.json")
	if err := manifest.Save(manifestPath, clips); err != nil {
		logging.WarnWithContext(logger, "segment manifest not written", "dub_manifest_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "merge cannot be rerun from the segments directory"),
		)
	}

	result := e.mergeVideo(services.WithStage(ctx, "merge"), MergeRequest{
		Video:    req.Video,
		Segments: clips,
		Output:   req.Output,
		Strategy: strategy.String(),
	}, run)
	if result.Succeeded() {
		result.Message = fmt.Sprintf("dubbed %d of %d lines; %s", len(clips), len(lines), result.Message)
	}
	return result
}

// dubLine translates, voices and (when the video keeps its timing) fits one
// subtitle line. It reports false when the line is dropped.
func (p *Pipeline) dubLine(ctx context.Context, req DubRequest, strategy timeline.Strategy, segDir string, idx int, line subtitles.Cue) (manifest.AudioSegment, bool) {
	e := p.Engine
	logger := logging.WithContext(ctx, e.logger)
	duration := line.Duration()
	drop := func(msg, event string, err error) (manifest.AudioSegment, bool) {
		logging.WarnWithContext(logger, msg, event,
			logging.Seconds("start", line.Start),
			logging.Error(err),
			logging.String(logging.FieldImpact, "line keeps no dubbed audio"),
		)
		return manifest.AudioSegment{}, false
	}

	text := strings.TrimSpace(line.Text)
	if text == "" {
		return drop("line has no text; skipping", "dub_empty_line", errors.New("empty subtitle text"))
	}
	translated, err := p.Translator.Translate(ctx, text, language.DisplayName(req.TargetLanguage))
	if err == nil && strings.TrimSpace(translated) == "" {
		err = errors.New("empty translation")
	}
	if err != nil {
		return drop("translation failed; skipping line", "dub_translate_failed", err)
	}
	logger.Debug("line translated", logging.String("source", text), logging.String("translated", translated))

	ref := filepath.Join(segDir, fmt.Sprintf("ref_%d.wav", idx))
	if _, err := e.runner.Run(ctx, e.cfg.FFmpegBinary(), ffmpeg.ReferenceClipArgs(req.Video, line.Start, duration, ref)...); err != nil {
		return drop("reference clip extraction failed; skipping line", "dub_reference_failed", err)
	}
	defer os.Remove(ref)

	tts := filepath.Join(segDir, fmt.Sprintf("tts_%d.wav", idx))
	if err := p.Synthesizer.Synthesize(ctx, translated, ref, tts); err != nil {
		return drop("synthesis failed; skipping line", "dub_synthesize_failed", err)
	}

	if duration > 0 && !strategy.ReTimesVideo() {
		e.fitClip(ctx, tts, duration)
	}
	return manifest.AudioSegment{Start: line.Start, End: line.End, Duration: duration, Path: tts}, true
}

// fitClip compresses clip in place when it overruns slot by more than the
// pre-alignment slack. Failures keep the clip as synthesized.
func (e *Engine) fitClip(ctx context.Context, clip string, slot float64) {
	logger := logging.WithContext(ctx, e.logger)
	actual, err := e.prober.AudioDuration(ctx, clip)
	if err != nil || actual <= slot+e.cfg.Sync.PrealignSlack {
		return
	}
	aligned := align.AlignedPath(clip)
	if _, err := e.aligner().Align(ctx, clip, aligned, slot); err != nil {
		logging.WarnWithContext(logger, "line alignment failed; keeping synthesized length", "dub_align_failed",
			logging.String("clip", clip),
			logging.Error(err),
		)
		return
	}
	if err := fileutil.MoveFile(aligned, clip); err != nil {
		logging.WarnWithContext(logger, "aligned clip could not replace original", "dub_align_replace_failed",
			logging.String("clip", clip),
			logging.Error(err),
		)
	}
}

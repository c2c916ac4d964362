package dubbing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"dubsync/internal/align"
	"dubsync/internal/config"
	"dubsync/internal/fileutil"
	"dubsync/internal/history"
	"dubsync/internal/logging"
	"dubsync/internal/manifest"
	"dubsync/internal/media/ffmpeg"
	"dubsync/internal/media/ffprobe"
	"dubsync/internal/mixer"
	"dubsync/internal/rife"
	"dubsync/internal/services"
	"dubsync/internal/subtitles"
	"dubsync/internal/timeline"
)

// Engine exposes the dubbing entry points. Every entry point returns a
// services.Result rather than an error.
type Engine struct {
	cfg          *config.Config
	runner       ffmpeg.Runner
	prober       ffprobe.Prober
	interpolator timeline.Interpolator
	store        *history.Store
	logger       *slog.Logger
	now          func() time.Time
}

// Option customizes the engine.
type Option func(*Engine)

// WithRunner overrides the process runner used for ffmpeg and rife.
func WithRunner(runner ffmpeg.Runner) Option {
	return func(e *Engine) {
		if runner != nil {
			e.runner = runner
		}
	}
}

// WithProber overrides the media prober.
func WithProber(prober ffprobe.Prober) Option {
	return func(e *Engine) {
		if prober != nil {
			e.prober = prober
		}
	}
}

// WithInterpolator overrides the frame interpolator used by the rife strategy.
func WithInterpolator(interp timeline.Interpolator) Option {
	return func(e *Engine) {
		if interp != nil {
			e.interpolator = interp
		}
	}
}

// WithHistory records every run in store.
func WithHistory(store *history.Store) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New constructs an engine from cfg. Without options it runs real ffmpeg,
// ffprobe and rife-ncnn-vulkan processes.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		runner: ffmpeg.ExecRunner{},
		prober: ffprobe.NewCLI(cfg.FFprobeBinary()),
		logger: logging.NewComponentLogger(logger, "dubbing"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.interpolator == nil {
		e.interpolator = &rife.Interpolator{
			Runner:     e.runner,
			Prober:     e.prober,
			Binary:     cfg.Tools.RIFEBinary,
			Model:      cfg.Tools.RIFEModel,
			SearchDirs: cfg.Tools.RIFESearchDirs,
			Logger:     logging.NewComponentLogger(logger, "rife"),
		}
	}
	return e
}

// Prober returns the media prober the engine uses.
func (e *Engine) Prober() ffprobe.Prober {
	return e.prober
}

func (e *Engine) aligner() *align.Aligner {
	a := align.New(e.runner, e.prober, e.cfg.FFmpegBinary(), e.logger)
	a.Bounds = alignerBounds(e.cfg)
	return a
}

func (e *Engine) startRun(ctx context.Context, stage string) (context.Context, string) {
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	return services.WithStage(ctx, stage), runID
}

// MergeRequest describes a merge of replacement clips into a video.
type MergeRequest struct {
	Video string
	// Manifest is read when Segments is nil.
	Manifest string
	Segments []manifest.AudioSegment
	Output   string
	// Strategy defaults to the configured sync strategy.
	Strategy string
}

// MergeVideo places the request's clips on the video's timeline. auto_speedup
// pre-aligns overlong clips and mixes them over the untouched video; the other
// strategies rebuild the video around each clip's measured length.
func (e *Engine) MergeVideo(ctx context.Context, req MergeRequest) services.Result {
	ctx, runID := e.startRun(ctx, "merge")
	started := e.now()
	run := history.Run{
		ID:        runID,
		Kind:      history.KindMerge,
		Video:     req.Video,
		Output:    req.Output,
		StartedAt: started,
	}

	result := e.mergeVideo(ctx, req, &run)
	result.RunID = runID
	e.finish(ctx, run, result)
	return result
}

func (e *Engine) mergeVideo(ctx context.Context, req MergeRequest, run *history.Run) services.Result {
	logger := logging.WithContext(ctx, e.logger)

	name := strings.TrimSpace(req.Strategy)
	if name == "" {
		name = e.cfg.Sync.Strategy
	}
	strategy, err := timeline.ParseStrategy(name)
	if err != nil {
		return services.Failure(err)
	}
	run.Strategy = strategy.String()

	if strings.TrimSpace(req.Video) == "" || strings.TrimSpace(req.Output) == "" {
		return services.Failure(services.Wrap(services.ErrValidation, "merge", "request", "video and output are required", nil))
	}

	segments := req.Segments
	if segments == nil {
		segments, err = manifest.Load(req.Manifest)
		if err != nil {
			return services.Failure(err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(req.Output), 0o755); err != nil {
		return services.Failure(services.Wrap(services.ErrMerge, "merge", "create output dir", req.Output, err))
	}
	unlock, err := fileutil.LockOutput(req.Output)
	if err != nil {
		if errors.Is(err, fileutil.ErrLocked) {
			return services.Failure(services.Wrap(services.ErrValidation, "merge", "lock output",
				"another run is writing "+req.Output, err))
		}
		return services.Failure(services.Wrap(services.ErrMerge, "merge", "lock output", req.Output, err))
	}
	defer unlock()

	if err := e.ensureWorkDir(); err != nil {
		return services.Failure(err)
	}

	logger.Info("merge started",
		logging.String("video", req.Video),
		logging.String("output", req.Output),
		logging.String("strategy", strategy.String()),
		logging.Int("segments", len(segments)),
	)

	if !strategy.ReTimesVideo() {
		prepared := e.aligner().PrealignManifest(ctx, segments, e.cfg.Sync.PrealignSlack)
		report, err := mixer.New(e.runner, e.prober, mixerOptions(e.cfg), e.logger).
			Merge(ctx, req.Video, prepared, req.Output)
		run.Chunks = report.Mixed
		run.FailedChunks = report.Skipped
		if err != nil {
			return services.Failure(err)
		}
		res := services.Success(req.Output, fmt.Sprintf("mixed %d of %d clips", report.Mixed, len(segments)))
		res.Chunks = report.Mixed
		res.FailedChunks = report.Skipped
		return res
	}

	rec := timeline.NewReconstructor(e.runner, e.prober, e.interpolator, timelineOptions(e.cfg), e.logger)
	report, err := rec.Reconstruct(ctx, req.Video, segments, strategy, req.Output)
	run.Chunks = report.Rendered()
	run.FailedChunks = report.Failed()
	if err != nil {
		return services.Failure(err)
	}
	res := services.Success(req.Output, fmt.Sprintf("rendered %d of %d chunks", report.Rendered(), len(report.Results)))
	res.Chunks = report.Rendered()
	res.FailedChunks = report.Failed()
	return res
}

// AlignAudio re-times input to target seconds at output.
func (e *Engine) AlignAudio(ctx context.Context, input, output string, target float64) services.Result {
	ctx, runID := e.startRun(ctx, "align")
	run := history.Run{
		ID:        runID,
		Kind:      history.KindAlign,
		Video:     input,
		Output:    output,
		StartedAt: e.now(),
	}

	var result services.Result
	aligned, err := e.aligner().Align(ctx, input, output, target)
	if err != nil {
		result = services.Failure(err)
	} else {
		result = services.Success(output, fmt.Sprintf("aligned %.3fs to %.3fs (atempo %s)",
			aligned.Source, aligned.Target, ffmpeg.AtempoFilter(aligned.Chain)))
	}
	result.RunID = runID
	e.finish(ctx, run, result)
	return result
}

// GenerateSubtitles converts recogniser segments at segmentsPath into an SRT
// file. An empty outPath writes beside the input with an .srt extension.
func (e *Engine) GenerateSubtitles(ctx context.Context, segmentsPath, outPath string) services.Result {
	ctx, runID := e.startRun(ctx, "subtitles")
	if strings.TrimSpace(outPath) == "" {
		outPath = strings.TrimSuffix(segmentsPath, filepath.Ext(segmentsPath)) + ".srt"
	}
	run := history.Run{
		ID:        runID,
		Kind:      history.KindSubtitles,
		Video:     segmentsPath,
		Output:    outPath,
		StartedAt: e.now(),
	}

	result := e.generateSubtitles(ctx, segmentsPath, outPath)
	result.RunID = runID
	run.Chunks = result.Chunks
	e.finish(ctx, run, result)
	return result
}

func (e *Engine) generateSubtitles(ctx context.Context, segmentsPath, outPath string) services.Result {
	segments, err := subtitles.LoadSegments(segmentsPath)
	if err != nil {
		marker := services.ErrValidation
		if errors.Is(err, os.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return services.Failure(services.Wrap(marker, "subtitles", "load segments", segmentsPath, err))
	}
	return e.writeCues(ctx, e.segment(segments), len(segments), outPath)
}

// segment splits recognised segments into display cues.
func (e *Engine) segment(segments []subtitles.Segment) []subtitles.Cue {
	return subtitles.NewSegmenter(segmenterOptions(e.cfg), e.logger).Split(segments)
}

func (e *Engine) writeCues(ctx context.Context, cues []subtitles.Cue, segments int, outPath string) services.Result {
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Failure(services.Wrap(services.ErrValidation, "subtitles", "create output dir", dir, err))
		}
	}
	if err := subtitles.WriteSRTFile(outPath, cues); err != nil {
		return services.Failure(services.Wrap(services.ErrValidation, "subtitles", "write srt", outPath, err))
	}
	logging.WithContext(ctx, e.logger).Info("subtitles written",
		logging.String("output", outPath),
		logging.Int("segments", segments),
		logging.Int("cues", len(cues)),
	)
	res := services.Success(outPath, fmt.Sprintf("wrote %d cues", len(cues)))
	res.Chunks = len(cues)
	return res
}

// PlanReport is the chunk layout a merge would render.
type PlanReport struct {
	Video    string           `json:"video"`
	Strategy string           `json:"strategy"`
	Total    float64          `json:"total_duration"`
	Chunks   []timeline.Chunk `json:"chunks"`
}

// Plan probes video and lays out the chunks for segments without rendering.
func (e *Engine) Plan(ctx context.Context, video string, segments []manifest.AudioSegment, strategyName string) (PlanReport, error) {
	if strings.TrimSpace(strategyName) == "" {
		strategyName = e.cfg.Sync.Strategy
	}
	strategy, err := timeline.ParseStrategy(strategyName)
	if err != nil {
		return PlanReport{}, err
	}
	total, err := e.prober.Duration(ctx, video)
	if err != nil {
		return PlanReport{}, err
	}
	return PlanReport{
		Video:    video,
		Strategy: strategy.String(),
		Total:    total,
		Chunks:   timeline.Plan(segments, total, strategy, timelineOptions(e.cfg)),
	}, nil
}

func (e *Engine) ensureWorkDir() error {
	dir := strings.TrimSpace(e.cfg.Paths.WorkDir)
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "merge", "create work dir", dir, err)
	}
	return nil
}

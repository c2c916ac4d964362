package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"dubsync/internal/logging"
	"dubsync/internal/manifest"
	"dubsync/internal/media/ffmpeg"
	"dubsync/internal/media/ffprobe"
	"dubsync/internal/rife"
	"dubsync/internal/services"
)

// Interpolator adds frames to a clip so it can be stretched to target seconds.
type Interpolator interface {
	Interpolate(ctx context.Context, input, output string, target float64) (rife.Report, error)
}

// ChunkResult is the outcome of rendering one chunk. Err is set when the chunk
// was dropped from the output.
type ChunkResult struct {
	Chunk         Chunk
	Path          string
	AudioDuration float64
	Scale         float64
	Filter        string
	Err           error
}

// Report summarizes a reconstruction.
type Report struct {
	RunID   string
	Output  string
	Total   float64
	Results []ChunkResult
}

// Rendered counts chunks that made it into the output.
func (r Report) Rendered() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts dropped chunks.
func (r Report) Failed() int {
	return len(r.Results) - r.Rendered()
}

// Reconstructor rebuilds a video from gap, re-timed segment and tail chunks.
type Reconstructor struct {
	Runner       ffmpeg.Runner
	Prober       ffprobe.Prober
	Interpolator Interpolator
	Options      Options
	Logger       *slog.Logger
}

// NewReconstructor constructs a Reconstructor.
func NewReconstructor(runner ffmpeg.Runner, prober ffprobe.Prober, interp Interpolator, opts Options, logger *slog.Logger) *Reconstructor {
	return &Reconstructor{
		Runner:       runner,
		Prober:       prober,
		Interpolator: interp,
		Options:      opts.withDefaults(),
		Logger:       logging.NewComponentLogger(logger, "timeline"),
	}
}

func (r *Reconstructor) logger() *slog.Logger {
	if r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}

// Reconstruct renders every planned chunk into a per-run work directory and
// concatenates the ones that succeeded into output. A chunk that fails is
// logged and dropped. The work directory is removed on return.
func (r *Reconstructor) Reconstruct(ctx context.Context, video string, segments []manifest.AudioSegment, strategy Strategy, output string) (Report, error) {
	opts := r.Options.withDefaults()
	report := Report{Output: output}

	if !strategy.ReTimesVideo() {
		return report, services.Wrap(services.ErrValidation, "timeline", "reconstruct",
			fmt.Sprintf("strategy %s keeps video timing; merge with the mixer instead", strategy), nil)
	}

	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	report.RunID = runID
	ctx = services.WithStage(ctx, "reconstruct")
	logger := logging.WithContext(ctx, r.logger())

	total, err := r.Prober.Duration(ctx, video)
	if err != nil {
		return report, fmt.Errorf("probe source video: %w", err)
	}
	report.Total = total

	root := opts.WorkDir
	if root == "" {
		root = os.TempDir()
	}
	workDir := filepath.Join(root, "dubsync-"+runID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return report, services.Wrap(services.ErrConcat, "timeline", "create work dir", workDir, err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn("failed to remove work dir", logging.String("path", workDir), logging.Error(err))
		}
	}()

	chunks := Plan(segments, total, strategy, opts)
	logger.Info("timeline planned",
		logging.String("video", video),
		logging.String("strategy", strategy.String()),
		logging.Seconds("total_duration", total),
		logging.Int("segments", len(segments)),
		logging.Int("chunks", len(chunks)),
	)

	paths := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		chunkCtx := services.WithChunkIndex(ctx, chunk.Index)
		result := r.renderChunk(chunkCtx, video, chunk, strategy, workDir, opts)
		report.Results = append(report.Results, result)
		if result.Err != nil {
			logging.WarnWithContext(logging.WithContext(chunkCtx, r.logger()), "chunk dropped", "chunk_failed",
				logging.String("kind", string(chunk.Kind)),
				logging.Seconds("start", chunk.SourceStart),
				logging.Seconds("duration", chunk.SourceDuration),
				logging.Error(result.Err),
				logging.String(logging.FieldImpact, "interval missing from output timeline"),
				logging.String(logging.FieldErrorHint, "rerun with debug logging to see the ffmpeg stderr"),
			)
			continue
		}
		paths = append(paths, result.Path)
	}

	if len(paths) == 0 {
		return report, services.Wrap(services.ErrConcat, "timeline", "concat", "no chunks were produced", nil)
	}

	listPath := filepath.Join(workDir, "concat.txt")
	if err := ffmpeg.WriteConcatList(listPath, paths); err != nil {
		return report, services.Wrap(services.ErrConcat, "timeline", "concat", "write manifest", err)
	}
	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return report, services.Wrap(services.ErrConcat, "timeline", "concat", "create output dir", err)
		}
	}
	if _, err := r.Runner.Run(ctx, opts.FFmpeg, ffmpeg.ConcatArgs(listPath, output)...); err != nil {
		return report, services.Wrap(services.ErrConcat, "timeline", "concat", output, err)
	}

	logger.Info("timeline reconstructed",
		logging.String("output", output),
		logging.Int("rendered", report.Rendered()),
		logging.Int("dropped", report.Failed()),
	)
	return report, nil
}

func (r *Reconstructor) renderChunk(ctx context.Context, video string, chunk Chunk, strategy Strategy, workDir string, opts Options) ChunkResult {
	result := ChunkResult{Chunk: chunk, Path: filepath.Join(workDir, chunk.FileName())}
	if chunk.Kind != KindSegment {
		args := ffmpeg.SilentChunkArgs(video, chunk.SourceStart, chunk.SourceDuration, result.Path, opts.Encoding)
		if _, err := r.Runner.Run(ctx, opts.FFmpeg, args...); err != nil {
			result.Err = services.Wrap(services.ErrExternalTool, "timeline", "render "+string(chunk.Kind), "", err)
		}
		return result
	}

	seg := chunk.Segment
	slot := chunk.SourceDuration
	actual, err := r.Prober.AudioDuration(ctx, seg.Path)
	if err != nil {
		result.Err = err
		return result
	}
	result.AudioDuration = actual
	result.Scale = actual / slot
	result.Filter = VideoFilters(strategy, result.Scale, actual, slot, opts.ScaleTolerance)

	input := ffmpeg.VideoInput{Path: video, Start: chunk.SourceStart, Duration: slot}
	if strategy == RIFE && result.Scale > 1+opts.ScaleTolerance {
		if interpolated, ok := r.interpolate(ctx, video, chunk, actual, workDir, opts); ok {
			input = ffmpeg.VideoInput{Path: interpolated}
		}
	}

	logging.WithContext(ctx, r.logger()).Debug("rendering segment chunk",
		logging.Seconds("slot", slot),
		logging.Seconds("audio_duration", actual),
		logging.Float64("scale", result.Scale),
		logging.String("filter", result.Filter),
	)

	args := ffmpeg.SegmentChunkArgs(input, seg.Path, result.Filter, result.Path, opts.Encoding)
	if _, err := r.Runner.Run(ctx, opts.FFmpeg, args...); err != nil {
		result.Err = services.Wrap(services.ErrExternalTool, "timeline", "render segment", seg.Path, err)
	}
	return result
}

// interpolate extracts the raw slot and densifies it. On failure the caller
// stretches the original slot instead.
func (r *Reconstructor) interpolate(ctx context.Context, video string, chunk Chunk, target float64, workDir string, opts Options) (string, bool) {
	logger := logging.WithContext(ctx, r.logger())
	if r.Interpolator == nil {
		logging.WarnWithContext(logger, "frame interpolation unavailable; stretching original frames", "rife_unavailable",
			logging.String(logging.FieldImpact, "slow motion is less smooth"),
			logging.String(logging.FieldErrorHint, "configure tools.rife_binary"),
		)
		return "", false
	}

	raw := filepath.Join(workDir, fmt.Sprintf("rife_in_%d.mp4", chunk.Index))
	out := filepath.Join(workDir, fmt.Sprintf("rife_out_%d.mp4", chunk.Index))
	defer os.Remove(raw)

	args := ffmpeg.ExtractVideoArgs(video, chunk.SourceStart, chunk.SourceDuration, raw, opts.Encoding)
	if _, err := r.Runner.Run(ctx, opts.FFmpeg, args...); err != nil {
		logging.WarnWithContext(logger, "slot extraction failed; stretching original frames", "rife_extract_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "slow motion is less smooth"),
		)
		return "", false
	}
	report, err := r.Interpolator.Interpolate(ctx, raw, out, target)
	if err != nil {
		logging.WarnWithContext(logger, "frame interpolation failed; stretching original frames", "rife_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "slow motion is less smooth"),
			logging.String(logging.FieldErrorHint, "check the interpolator binary and GPU drivers"),
		)
		return "", false
	}
	logger.Debug("frame interpolation complete", logging.Int("passes", report.Passes))
	return out, true
}

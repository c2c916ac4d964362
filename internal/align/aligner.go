package align

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"dubsync/internal/logging"
	"dubsync/internal/manifest"
	"dubsync/internal/media/ffmpeg"
	"dubsync/internal/media/ffprobe"
	"dubsync/internal/services"
)

// Result describes one alignment.
type Result struct {
	Output string    `json:"output"`
	Source float64   `json:"source_duration"`
	Target float64   `json:"target_duration"`
	Factor float64   `json:"factor"`
	Chain  []float64 `json:"chain"`
}

// Aligner time-stretches audio clips to a target duration with ffmpeg atempo.
type Aligner struct {
	Runner ffmpeg.Runner
	Prober ffprobe.Prober
	Bounds Bounds
	FFmpeg string
	Logger *slog.Logger
}

// New returns an aligner using default bounds.
func New(runner ffmpeg.Runner, prober ffprobe.Prober, ffmpegBinary string, logger *slog.Logger) *Aligner {
	return &Aligner{
		Runner: runner,
		Prober: prober,
		Bounds: DefaultBounds(),
		FFmpeg: ffmpegBinary,
		Logger: logging.NewComponentLogger(logger, "align"),
	}
}

func (a *Aligner) logger() *slog.Logger {
	if a.Logger == nil {
		return logging.NewNop()
	}
	return a.Logger
}

func (a *Aligner) binary() string {
	if strings.TrimSpace(a.FFmpeg) == "" {
		return "ffmpeg"
	}
	return a.FFmpeg
}

// Align writes input re-timed to target seconds at output.
func (a *Aligner) Align(ctx context.Context, input, output string, target float64) (Result, error) {
	result := Result{Output: output, Target: target}
	if !(target > 0) {
		return result, services.Wrap(services.ErrAlignment, "align", "validate",
			fmt.Sprintf("target duration %v must be positive", target), nil)
	}

	source, err := a.Prober.AudioDuration(ctx, input)
	if err != nil {
		return result, services.Wrap(services.ErrAlignment, "align", "probe source", input, err)
	}
	result.Source = source
	result.Factor = source / target

	chain, err := TempoChain(source, target, a.Bounds)
	if err != nil {
		return result, err
	}
	result.Chain = chain

	args := ffmpeg.AtempoArgs(input, chain, output)
	if _, err := a.Runner.Run(ctx, a.binary(), args...); err != nil {
		return result, services.Wrap(services.ErrAlignment, "align", "atempo", input, err)
	}

	a.logger().Debug("audio aligned",
		logging.String("input", input),
		logging.Seconds("source_duration", source),
		logging.Seconds("target_duration", target),
		logging.String("filter", ffmpeg.AtempoFilter(chain)),
	)
	return result, nil
}

// AlignedPath returns the sibling path used for a pre-aligned clip.
func AlignedPath(clip string) string {
	return strings.TrimSuffix(clip, filepath.Ext(clip)) + "_aligned.wav"
}

// PrealignManifest compresses clips that overrun their slot by more than
// slack so they fit the slot. Clips that fit, or that fail to probe or align,
// are returned unchanged.
func (a *Aligner) PrealignManifest(ctx context.Context, segments []manifest.AudioSegment, slack float64) []manifest.AudioSegment {
	out := make([]manifest.AudioSegment, len(segments))
	copy(out, segments)

	for i, seg := range out {
		if seg.Duration <= 0 {
			continue
		}
		actual, err := a.Prober.AudioDuration(ctx, seg.Path)
		if err != nil {
			logging.WarnWithContext(a.logger(), "clip probe failed; keeping original", "prealign_probe_failed",
				logging.String("clip", seg.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "clip mixed at its native length"),
			)
			continue
		}
		if actual <= seg.Duration+slack {
			continue
		}
		target := AlignedPath(seg.Path)
		if _, err := a.Align(ctx, seg.Path, target, seg.Duration); err != nil {
			logging.WarnWithContext(a.logger(), "pre-alignment failed; keeping original", "prealign_failed",
				logging.String("clip", seg.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "clip may overlap the next segment"),
				logging.String(logging.FieldErrorHint, "check ffmpeg atempo support"),
			)
			continue
		}
		a.logger().Info("clip pre-aligned",
			logging.String("clip", seg.Path),
			logging.Seconds("actual", actual),
			logging.Seconds("slot", seg.Duration),
		)
		out[i].Path = target
	}
	return out
}

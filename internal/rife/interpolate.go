package rife

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dubsync/internal/fileutil"
	"dubsync/internal/logging"
	"dubsync/internal/media/ffmpeg"
	"dubsync/internal/media/ffprobe"
	"dubsync/internal/services"
)

// Report summarizes one interpolation.
type Report struct {
	Source    float64
	Target    float64
	RawFactor float64
	Passes    int
}

// Interpolator drives rife-ncnn-vulkan over a video clip. Each pass doubles the
// frame count at the same nominal duration.
type Interpolator struct {
	Runner     ffmpeg.Runner
	Prober     ffprobe.Prober
	Binary     string
	Model      string
	SearchDirs []string
	Logger     *slog.Logger
}

func (in *Interpolator) logger() *slog.Logger {
	if in.Logger == nil {
		return logging.NewNop()
	}
	return in.Logger
}

// Interpolate writes input with enough frames to cover target seconds at
// output. Intermediate passes are written beside output and removed once
// superseded. A failed pass aborts the rest.
func (in *Interpolator) Interpolate(ctx context.Context, input, output string, target float64) (Report, error) {
	exe, err := Locate(in.Binary, in.Model, in.SearchDirs)
	if err != nil {
		return Report{}, err
	}

	orig, err := in.Prober.Duration(ctx, input)
	if err != nil {
		return Report{}, services.Wrap(services.ErrInterpolation, "rife", "probe input", input, err)
	}
	passes, rawFactor := Plan(orig, target)
	report := Report{Source: orig, Target: target, RawFactor: rawFactor, Passes: passes}

	logger := logging.WithContext(ctx, in.logger())
	logger.Debug("interpolation planned",
		logging.String("input", input),
		logging.Seconds("source_duration", orig),
		logging.Seconds("target_duration", target),
		logging.Float64("raw_factor", rawFactor),
		logging.Int("passes", passes),
	)

	dir := filepath.Dir(output)
	current := input
	for i := range passes {
		next := filepath.Join(dir, passName(ctx, i))
		args := []string{"-i", current, "-o", next}
		if exe.Model != "" {
			args = append(args, "-m", exe.Model)
		}
		if _, err := in.Runner.Run(ctx, exe.Path, args...); err != nil {
			if current != input {
				_ = os.Remove(current)
			}
			_ = os.Remove(next)
			return report, services.Wrap(services.ErrInterpolation, "rife",
				fmt.Sprintf("pass %d/%d", i+1, passes), input, err)
		}
		if current != input {
			_ = os.Remove(current)
		}
		current = next
	}

	if err := fileutil.MoveFile(current, output); err != nil {
		return report, services.Wrap(services.ErrInterpolation, "rife", "finalize", output, err)
	}
	return report, nil
}

func passName(ctx context.Context, pass int) string {
	if chunk, ok := services.ChunkIndexFromContext(ctx); ok {
		return fmt.Sprintf("rife_pass_%d_%d.mp4", chunk, pass)
	}
	return fmt.Sprintf("rife_pass_%d.mp4", pass)
}

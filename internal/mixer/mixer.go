package mixer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dubsync/internal/logging"
	"dubsync/internal/manifest"
	"dubsync/internal/media/ffmpeg"
	"dubsync/internal/media/ffprobe"
	"dubsync/internal/services"
)

// Options tunes the mix.
type Options struct {
	FFmpeg     string
	WorkDir    string
	SampleRate int
	Gain       float64
}

// DefaultOptions returns 44.1kHz with a 1.2x clip gain.
func DefaultOptions() Options {
	return Options{FFmpeg: "ffmpeg", SampleRate: 44100, Gain: 1.2}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.FFmpeg == "" {
		o.FFmpeg = def.FFmpeg
	}
	if o.SampleRate <= 0 {
		o.SampleRate = def.SampleRate
	}
	if o.Gain <= 0 {
		o.Gain = def.Gain
	}
	return o
}

// Report summarizes a merge.
type Report struct {
	Output     string
	Duration   float64
	Frames     int
	Mixed      int
	Skipped    int
	Peak       float64
	Normalized bool
}

// Mixer lays replacement clips over the original video's timeline in one
// sample buffer and muxes it against the untouched video stream.
type Mixer struct {
	Runner  ffmpeg.Runner
	Prober  ffprobe.Prober
	Options Options
	Logger  *slog.Logger
}

// New constructs a Mixer.
func New(runner ffmpeg.Runner, prober ffprobe.Prober, opts Options, logger *slog.Logger) *Mixer {
	return &Mixer{
		Runner:  runner,
		Prober:  prober,
		Options: opts.withDefaults(),
		Logger:  logging.NewComponentLogger(logger, "mixer"),
	}
}

func (m *Mixer) logger() *slog.Logger {
	if m.Logger == nil {
		return logging.NewNop()
	}
	return m.Logger
}

// Merge mixes segments into a buffer sized to the video and writes output.
// Clips that cannot be decoded or start past the end are skipped.
func (m *Mixer) Merge(ctx context.Context, video string, segments []manifest.AudioSegment, output string) (Report, error) {
	opts := m.Options.withDefaults()
	report := Report{Output: output}
	ctx = services.WithStage(ctx, "mix")
	logger := logging.WithContext(ctx, m.logger())

	if len(segments) == 0 {
		return report, services.Wrap(services.ErrMerge, "mixer", "merge", "no audio segments provided", nil)
	}

	duration, err := m.Prober.Duration(ctx, video)
	if err != nil {
		return report, fmt.Errorf("probe source video: %w", err)
	}
	report.Duration = duration

	tmp, err := os.MkdirTemp(opts.WorkDir, "dubsync-mix-")
	if err != nil {
		return report, services.Wrap(services.ErrMerge, "mixer", "create temp dir", "", err)
	}
	defer os.RemoveAll(tmp)

	buf := NewBuffer(duration, opts.SampleRate)
	report.Frames = buf.Frames()
	logger.Info("mix buffer allocated",
		logging.Seconds("duration", duration),
		logging.Int("frames", buf.Frames()),
		logging.Int("segments", len(segments)),
	)

	for i, seg := range segments {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		clipLogger := logging.WithContext(services.WithChunkIndex(ctx, i), m.logger())
		if int(seg.Start*float64(opts.SampleRate)) >= buf.Frames() {
			logging.WarnWithContext(clipLogger, "segment starts after video end; skipping", "mix_segment_out_of_range",
				logging.String("clip", seg.Path),
				logging.Seconds("start", seg.Start),
				logging.String(logging.FieldImpact, "clip not heard in output"),
			)
			report.Skipped++
			continue
		}

		clip, err := m.loadClip(ctx, seg.Path, filepath.Join(tmp, fmt.Sprintf("clip_%d.wav", i)), opts.SampleRate)
		if err != nil {
			logging.WarnWithContext(clipLogger, "segment decode failed; skipping", "mix_segment_failed",
				logging.String("clip", seg.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "clip not heard in output"),
			)
			report.Skipped++
			continue
		}
		frames, _ := buf.Add(ToStereo(clip.Samples, clip.Channels), seg.Start, opts.Gain)
		clipLogger.Debug("segment mixed", logging.String("clip", seg.Path), logging.Int("frames", frames))
		report.Mixed++
	}
	if report.Mixed == 0 {
		return report, services.Wrap(services.ErrMerge, "mixer", "mix",
			fmt.Sprintf("none of %d clips could be mixed", len(segments)), nil)
	}

	report.Peak = buf.Peak()
	if buf.Normalize() {
		report.Normalized = true
		logger.Info("mix normalized", logging.Float64("peak", report.Peak))
	}

	mixPath := filepath.Join(tmp, "mix.wav")
	if err := WriteWAV(mixPath, buf); err != nil {
		return report, services.Wrap(services.ErrMerge, "mixer", "write mix", mixPath, err)
	}
	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return report, services.Wrap(services.ErrMerge, "mixer", "create output dir", dir, err)
		}
	}
	if _, err := m.Runner.Run(ctx, opts.FFmpeg, ffmpeg.MuxArgs(video, mixPath, output)...); err != nil {
		return report, services.Wrap(services.ErrMerge, "mixer", "mux", output, err)
	}

	logger.Info("mix complete",
		logging.String("output", output),
		logging.Int("mixed", report.Mixed),
		logging.Int("skipped", report.Skipped),
	)
	return report, nil
}

// loadClip converts path to PCM WAV at rate with ffmpeg and decodes it.
func (m *Mixer) loadClip(ctx context.Context, path, dest string, rate int) (Clip, error) {
	if _, err := m.Runner.Run(ctx, m.Options.withDefaults().FFmpeg, ffmpeg.DecodeAudioArgs(path, rate, dest)...); err != nil {
		return Clip{}, err
	}
	return ReadWAV(dest)
}

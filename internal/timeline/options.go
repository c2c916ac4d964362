package timeline

import "dubsync/internal/media/ffmpeg"

// Options tunes chunk layout and rendering.
type Options struct {
	FFmpeg  string
	WorkDir string

	Encoding ffmpeg.Encoding

	// GapThreshold is the smallest gap rendered as its own chunk.
	GapThreshold float64
	// TailThreshold is the smallest remainder rendered as a tail chunk.
	TailThreshold float64
	// ScaleTolerance is the distance from 1.0 treated as already matching.
	ScaleTolerance float64
	// Slots at or below MinSlot are treated as SlotFallback seconds.
	MinSlot      float64
	SlotFallback float64
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		FFmpeg:         "ffmpeg",
		Encoding:       ffmpeg.DefaultEncoding(),
		GapThreshold:   0.05,
		TailThreshold:  0.1,
		ScaleTolerance: 0.02,
		MinSlot:        0.05,
		SlotFallback:   0.1,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.FFmpeg == "" {
		o.FFmpeg = def.FFmpeg
	}
	if o.GapThreshold <= 0 {
		o.GapThreshold = def.GapThreshold
	}
	if o.TailThreshold <= 0 {
		o.TailThreshold = def.TailThreshold
	}
	if o.ScaleTolerance <= 0 {
		o.ScaleTolerance = def.ScaleTolerance
	}
	if o.MinSlot <= 0 {
		o.MinSlot = def.MinSlot
	}
	if o.SlotFallback <= 0 {
		o.SlotFallback = def.SlotFallback
	}
	return o
}

func (o Options) slot(duration float64) float64 {
	if duration <= o.MinSlot {
		return o.SlotFallback
	}
	return duration
}

package mixer

import "math"

// Buffer is an interleaved stereo mix bus.
type Buffer struct {
	Rate    int
	Samples []float32
}

// NewBuffer allocates a silent buffer covering duration seconds at rate.
func NewBuffer(duration float64, rate int) *Buffer {
	frames := 0
	if duration > 0 {
		frames = int(duration*float64(rate)) + 1
	}
	return &Buffer{Rate: rate, Samples: make([]float32, frames*2)}
}

// Frames returns the number of stereo frames.
func (b *Buffer) Frames() int {
	return len(b.Samples) / 2
}

// Duration returns the buffer length in seconds.
func (b *Buffer) Duration() float64 {
	if b.Rate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.Rate)
}

// Add mixes an interleaved stereo clip into the buffer at start seconds,
// scaled by gain. Clips starting past the end are skipped; clips running past
// the end are truncated. It returns the number of frames written.
func (b *Buffer) Add(clip []float32, start, gain float64) (int, bool) {
	offset := int(start * float64(b.Rate))
	if offset >= b.Frames() {
		return 0, false
	}
	if offset < 0 {
		drop := min(-offset*2, len(clip))
		clip = clip[drop:]
		offset = 0
	}
	frames := min(len(clip)/2, b.Frames()-offset)
	g := float32(gain)
	dst := b.Samples[offset*2 : (offset+frames)*2]
	for i := range dst {
		dst[i] += clip[i] * g
	}
	return frames, true
}

// Peak returns the largest absolute sample value.
func (b *Buffer) Peak() float64 {
	var peak float64
	for _, s := range b.Samples {
		if v := math.Abs(float64(s)); v > peak {
			peak = v
		}
	}
	return peak
}

// Normalize divides the buffer by its peak when the peak exceeds 1.0. It
// reports whether the buffer was scaled.
func (b *Buffer) Normalize() bool {
	peak := b.Peak()
	if peak <= 1.0 {
		return false
	}
	scale := float32(1 / peak)
	for i := range b.Samples {
		b.Samples[i] *= scale
	}
	return true
}

// ToStereo converts interleaved samples with the given channel count to
// interleaved stereo. Mono is duplicated; extra channels are dropped.
func ToStereo(samples []float32, channels int) []float32 {
	switch {
	case channels == 2:
		return samples
	case channels <= 1:
		out := make([]float32, len(samples)*2)
		for i, s := range samples {
			out[2*i] = s
			out[2*i+1] = s
		}
		return out
	default:
		frames := len(samples) / channels
		out := make([]float32, frames*2)
		for f := range frames {
			out[2*f] = samples[f*channels]
			out[2*f+1] = samples[f*channels+1]
		}
		return out
	}
}

package timeline

import (
	"fmt"

	"dubsync/internal/manifest"
)

// Kind identifies the role of a chunk on the rebuilt timeline.
type Kind string

const (
	KindGap     Kind = "gap"
	KindSegment Kind = "segment"
	KindTail    Kind = "tail"
)

// Chunk is one playback interval of the rebuilt timeline. SourceStart and
// SourceDuration locate it on the original video.
type Chunk struct {
	Kind           Kind                   `json:"kind"`
	Index          int                    `json:"index"`
	SourceStart    float64                `json:"source_start"`
	SourceDuration float64                `json:"source_duration"`
	Segment        *manifest.AudioSegment `json:"segment,omitempty"`
}

// SourceEnd returns the end of the chunk on the original timeline.
func (c Chunk) SourceEnd() float64 {
	return c.SourceStart + c.SourceDuration
}

// FileName returns the deterministic file name of the rendered chunk.
func (c Chunk) FileName() string {
	switch c.Kind {
	case KindGap:
		return fmt.Sprintf("gap_%d.mp4", c.Index)
	case KindSegment:
		return fmt.Sprintf("seg_%d.mp4", c.Index)
	default:
		return "tail.mp4"
	}
}

// Plan walks segments in start order and lays out gap, segment and tail chunks
// over a video of total seconds. Segment chunks are only planned when the
// strategy re-times video; under AutoSpeedup the mixer carries the new audio.
func Plan(segments []manifest.AudioSegment, total float64, strategy Strategy, opts Options) []Chunk {
	opts = opts.withDefaults()
	sorted := manifest.Sorted(segments)

	chunks := make([]Chunk, 0, 2*len(sorted)+1)
	cursor := 0.0
	for i := range sorted {
		seg := &sorted[i]
		if gap := seg.Start - cursor; gap > opts.GapThreshold {
			chunks = append(chunks, Chunk{Kind: KindGap, Index: i, SourceStart: cursor, SourceDuration: gap})
		}

		slot := opts.slot(seg.Duration)
		if strategy.ReTimesVideo() {
			chunks = append(chunks, Chunk{
				Kind:           KindSegment,
				Index:          i,
				SourceStart:    seg.Start,
				SourceDuration: slot,
				Segment:        seg,
			})
		}
		cursor = seg.Start + slot
	}

	if cursor < total-opts.TailThreshold {
		chunks = append(chunks, Chunk{
			Kind:           KindTail,
			Index:          len(sorted),
			SourceStart:    cursor,
			SourceDuration: total - cursor,
		})
	}
	return chunks
}

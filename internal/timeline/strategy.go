package timeline

import (
	"fmt"
	"strings"

	"dubsync/internal/services"
)

// Strategy selects how a segment's video is re-timed to its new audio.
type Strategy string

const (
	// AutoSpeedup re-times the audio only; video keeps its original speed.
	AutoSpeedup Strategy = "auto_speedup"
	// FrameBlend stretches presentation timestamps and blends frames.
	FrameBlend Strategy = "frame_blend"
	// FreezeFrame holds the last frame while longer audio plays out.
	FreezeFrame Strategy = "freeze_frame"
	// RIFE interpolates new frames before stretching.
	RIFE Strategy = "rife"
)

// Strategies lists every accepted strategy.
func Strategies() []Strategy {
	return []Strategy{AutoSpeedup, FrameBlend, FreezeFrame, RIFE}
}

// ParseStrategy accepts a strategy name. Unknown values are rejected.
func ParseStrategy(value string) (Strategy, error) {
	normalized := Strategy(strings.ToLower(strings.TrimSpace(value)))
	for _, s := range Strategies() {
		if normalized == s {
			return s, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "timeline", "parse strategy",
		fmt.Sprintf("unknown strategy %q (want auto_speedup, frame_blend, freeze_frame or rife)", value), nil)
}

// ReTimesVideo reports whether segments are rendered as re-timed video chunks.
func (s Strategy) ReTimesVideo() bool {
	return s != AutoSpeedup
}

func (s Strategy) String() string {
	return string(s)
}

package timeline

import (
	"fmt"
	"math"

	"dubsync/internal/media/ffmpeg"
)

// VideoFilters returns the video filter graph that re-times a slot of
// slotDur seconds to audio of audioDur seconds. scale is audioDur/slotDur.
// An empty result means the slot is rendered as-is.
func VideoFilters(strategy Strategy, scale, audioDur, slotDur, tolerance float64) string {
	if math.Abs(scale-1) <= tolerance {
		return ""
	}
	setpts := "setpts=" + ffmpeg.FormatFactor(scale) + "*PTS"
	switch strategy {
	case FrameBlend:
		return setpts + ",minterpolate=mi_mode=blend"
	case FreezeFrame:
		if pad := audioDur - slotDur; pad > 0 {
			return fmt.Sprintf("tpad=stop_mode=clone:stop_duration=%s", ffmpeg.FormatSeconds(pad))
		}
		return ""
	case RIFE:
		return setpts
	default:
		return ""
	}
}

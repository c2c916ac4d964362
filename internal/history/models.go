package history

import "time"

// Run kinds.
const (
	KindMerge     = "merge"
	KindAlign     = "align"
	KindSubtitles = "subtitles"
	KindDub       = "dub"
)

// Run is one recorded engine invocation.
type Run struct {
	ID           string     `json:"id"`
	Kind         string     `json:"kind"`
	Video        string     `json:"video,omitempty"`
	Output       string     `json:"output,omitempty"`
	Strategy     string     `json:"strategy,omitempty"`
	Status       string     `json:"status"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	Message      string     `json:"message,omitempty"`
	Chunks       int        `json:"chunks"`
	FailedChunks int        `json:"failed_chunks"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// Elapsed returns the run's wall-clock duration, or zero while unfinished.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt == nil || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

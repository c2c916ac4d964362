package subtitles

import "strings"

// Word is a single recognised token. Start and End are nil when the
// recogniser could not place the word.
type Word struct {
	Text  string   `json:"word"`
	Start *float64 `json:"start"`
	End   *float64 `json:"end"`
}

// Timed reports whether both timestamps are present.
func (w Word) Timed() bool {
	return w.Start != nil && w.End != nil
}

// Segment is one voice-activity span from the recogniser.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text,omitempty"`
	Words []Word  `json:"words"`
}

// Transcript returns the segment text, rebuilt from its words when the
// recogniser left Text empty.
func (s Segment) Transcript() string {
	if text := strings.TrimSpace(s.Text); text != "" {
		return text
	}
	var joined string
	for _, w := range s.Words {
		joined = joinText(joined, strings.TrimSpace(normalizeWord(w.Text)))
	}
	return strings.TrimSpace(joined)
}

// Cue is a single displayed subtitle entry.
type Cue struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns the cue length in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// Segment turns the cue into a recogniser segment carrying only its text.
func (c Cue) Segment() Segment {
	return Segment{Start: c.Start, End: c.End, Text: c.Text}
}

func ptr(v float64) *float64 {
	return &v
}

package subtitles

import (
	"log/slog"

	"dubsync/internal/logging"
)

// Options controls cue segmentation and timing polish. Durations are seconds.
type Options struct {
	// MaxChars is the per-cue character budget. Punctuation never triggers a
	// budget split.
	MaxChars int
	// MergeGap joins adjacent ASCII words separated by less than this gap.
	MergeGap float64
	// LeadInLimit bounds how far the first cue of a segment backfills into
	// leading silence.
	LeadInLimit float64
	// InternalDelay shifts cue boundaries inside a segment to offset
	// recogniser lag.
	InternalDelay float64
	// TailPad extends every cue end.
	TailPad float64
	// MinCue is the span forced on cues that would otherwise be empty.
	MinCue float64
	// SplitOnPeriod treats a trailing period as a terminator unless the next
	// word starts with a digit.
	SplitOnPeriod bool
	Repair        RepairOptions
}

// DefaultOptions returns the tuned segmentation defaults.
func DefaultOptions() Options {
	return Options{
		MaxChars:      30,
		MergeGap:      0.1,
		LeadInLimit:   0.5,
		InternalDelay: -0.35,
		TailPad:       0.2,
		MinCue:        0.1,
		Repair:        DefaultRepairOptions(),
	}
}

// Segmenter turns recognised segments into display cues.
type Segmenter struct {
	opts   Options
	logger *slog.Logger
}

// NewSegmenter constructs a segmenter. A nil logger discards output.
func NewSegmenter(opts Options, logger *slog.Logger) *Segmenter {
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultOptions().MaxChars
	}
	if opts.MinCue <= 0 {
		opts.MinCue = DefaultOptions().MinCue
	}
	if opts.Repair == (RepairOptions{}) {
		opts.Repair = DefaultRepairOptions()
	}
	return &Segmenter{opts: opts, logger: logging.NewComponentLogger(logger, "subtitles")}
}

// Split repairs, merges, chunks and times every segment, then removes overlaps
// across the whole cue list. Segments without words are skipped.
func (s *Segmenter) Split(segments []Segment) []Cue {
	var cues []Cue
	for i, seg := range segments {
		if len(seg.Words) == 0 {
			s.logger.Debug("segment skipped", logging.Int("segment", i), logging.String("reason", "no words"))
			continue
		}
		cues = append(cues, s.splitSegment(seg)...)
	}
	cues = Cleanup(cues, s.opts.MinCue)
	s.logger.Debug("segmentation complete", logging.Int("segments", len(segments)), logging.Int("cues", len(cues)))
	return cues
}

func (s *Segmenter) splitSegment(seg Segment) []Cue {
	words := make([]Word, len(seg.Words))
	for i, w := range seg.Words {
		w.Text = normalizeWord(w.Text)
		words[i] = w
	}
	seg.Words = words
	repaired := Repair(seg, s.opts.Repair)
	merged := mergeWords(repaired.Words, s.opts.MergeGap)
	chunks := chunkWords(merged, s.opts.MaxChars, s.opts.SplitOnPeriod)

	cues := make([]Cue, 0, len(chunks))
	for idx, chunk := range chunks {
		cue, ok := s.renderCue(repaired, chunk, idx, len(chunks))
		if !ok {
			continue
		}
		cues = append(cues, cue)
	}
	return cues
}

// mergeWords joins adjacent fully-timed ASCII words whose gap lies in
// [0, maxGap). Overlapping words are never merged.
func mergeWords(words []Word, maxGap float64) []Word {
	if len(words) == 0 {
		return nil
	}
	merged := make([]Word, 0, len(words))
	current := words[0]
	for _, next := range words[1:] {
		if !current.Timed() || !next.Timed() {
			merged = append(merged, current)
			current = next
			continue
		}
		gap := *next.Start - *current.End
		if isASCII(current.Text) && isASCII(next.Text) && gap >= 0 && gap < maxGap {
			current = Word{
				Text:  joinText(current.Text, next.Text),
				Start: current.Start,
				End:   next.End,
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

func chunkWords(words []Word, maxChars int, splitOnPeriod bool) [][]Word {
	var chunks [][]Word
	var current []Word
	length := 0
	for i, w := range words {
		if len(current) > 0 && !IsPunctuation(w.Text) && length+runeLen(w.Text) > maxChars {
			chunks = append(chunks, current)
			current = nil
			length = 0
		}
		current = append(current, w)
		length += runeLen(w.Text)

		next := ""
		if i+1 < len(words) {
			next = words[i+1].Text
		}
		if endsCue(w.Text, next, splitOnPeriod) {
			chunks = append(chunks, current)
			current = nil
			length = 0
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

func (s *Segmenter) renderCue(seg Segment, chunk []Word, idx, total int) (Cue, bool) {
	raw := ""
	for _, w := range chunk {
		raw = joinText(raw, w.Text)
	}
	text := DisplayText(raw)
	if text == "" {
		return Cue{}, false
	}

	start, end := seg.Start, seg.End
	if chunk[0].Start != nil {
		start = *chunk[0].Start
	}
	if last := chunk[len(chunk)-1]; last.End != nil {
		end = *last.End
	}
	for _, w := range chunk {
		if isContent(w) && w.Start != nil {
			start = *w.Start
			break
		}
	}
	for i := len(chunk) - 1; i >= 0; i-- {
		if isContent(chunk[i]) && chunk[i].End != nil {
			end = *chunk[i].End
			break
		}
	}

	if idx == 0 {
		start = min(start, max(seg.Start, start-s.opts.LeadInLimit))
	}
	if idx > 0 {
		start += s.opts.InternalDelay
	}
	if idx < total-1 {
		end += s.opts.InternalDelay
	}
	end += s.opts.TailPad
	if end <= start {
		end = start + s.opts.MinCue
	}
	return Cue{Start: start, End: end, Text: text}, true
}

// Cleanup snaps any cue that starts before its predecessor ends forward to
// that end, then re-applies the minimum duration. cues is modified in place.
func Cleanup(cues []Cue, minCue float64) []Cue {
	for i := 1; i < len(cues); i++ {
		prev := cues[i-1]
		if cues[i].Start < prev.End {
			cues[i].Start = prev.End
		}
		if cues[i].End <= cues[i].Start {
			cues[i].End = cues[i].Start + minCue
		}
	}
	return cues
}

package subtitles

// RepairOptions bounds inferred and explicit word durations.
type RepairOptions struct {
	// NominalWord is the duration given to a word with no end timestamp.
	NominalWord float64
	// MinWord is the span forced on a word squeezed into a non-positive gap.
	MinWord float64
	// MaxWord caps any single word's duration.
	MaxWord float64
}

// DefaultRepairOptions returns 0.3s nominal, 0.05s minimum and 1.5s maximum
// word durations.
func DefaultRepairOptions() RepairOptions {
	return RepairOptions{NominalWord: 0.3, MinWord: 0.05, MaxWord: 1.5}
}

// Repair returns a copy of seg in which every word has both timestamps.
//
// A word missing either timestamp keeps any start it has, otherwise starts at
// the previous word's end (the segment start for the first word). Its end is
// the earlier of start+NominalWord and the next start found among the
// following words (the segment end when there is none). A non-positive result
// becomes MinWord long. Finally every word is capped at MaxWord.
func Repair(seg Segment, opts RepairOptions) Segment {
	out := seg
	out.Words = make([]Word, len(seg.Words))
	for i, w := range seg.Words {
		out.Words[i] = Word{Text: w.Text}
		if w.Start != nil {
			out.Words[i].Start = ptr(*w.Start)
		}
		if w.End != nil {
			out.Words[i].End = ptr(*w.End)
		}
	}

	words := out.Words
	for i := range words {
		if words[i].Timed() {
			continue
		}

		startCandidate := seg.Start
		if i > 0 && words[i-1].End != nil {
			startCandidate = *words[i-1].End
		}
		limit := seg.End
		for j := i + 1; j < len(words); j++ {
			if words[j].Start != nil {
				limit = *words[j].Start
				break
			}
		}

		start := startCandidate
		if words[i].Start != nil {
			start = *words[i].Start
		}
		end := min(start+opts.NominalWord, limit)
		if end <= start {
			end = start + opts.MinWord
		}
		words[i].Start = ptr(start)
		words[i].End = ptr(end)
	}

	for i := range words {
		if *words[i].End-*words[i].Start > opts.MaxWord {
			words[i].End = ptr(*words[i].Start + opts.MaxWord)
		}
	}
	return out
}

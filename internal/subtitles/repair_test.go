package subtitles

import (
	"math"
	"testing"
)

func timed(text string, start, end float64) Word {
	return Word{Text: text, Start: ptr(start), End: ptr(end)}
}

func untimed(text string) Word {
	return Word{Text: text}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRepairInfersFromNeighbours(t *testing.T) {
	seg := Segment{Start: 0, End: 2, Words: []Word{
		timed("a", 0, 0.5),
		untimed("b"),
		timed("c", 1.0, 1.4),
	}}
	out := Repair(seg, DefaultRepairOptions())
	b := out.Words[1]
	if !approx(*b.Start, 0.5) || !approx(*b.End, 0.8) {
		t.Fatalf("unexpected inferred span [%v, %v]", *b.Start, *b.End)
	}
	if seg.Words[1].Start != nil {
		t.Fatal("Repair must not mutate its input")
	}
}

func TestRepairLimitsToNextStart(t *testing.T) {
	seg := Segment{Start: 0, End: 2, Words: []Word{
		timed("a", 0, 0.5),
		untimed("b"),
		timed("c", 0.6, 1.0),
	}}
	b := Repair(seg, DefaultRepairOptions()).Words[1]
	if !approx(*b.End, 0.6) {
		t.Fatalf("expected end clamped to next start, got %v", *b.End)
	}
}

func TestRepairSqueezesIntoTightGap(t *testing.T) {
	seg := Segment{Start: 0, End: 2, Words: []Word{
		timed("a", 0, 0.5),
		untimed("b"),
		timed("c", 0.5, 1.0),
	}}
	b := Repair(seg, DefaultRepairOptions()).Words[1]
	if !approx(*b.Start, 0.5) || !approx(*b.End, 0.55) {
		t.Fatalf("expected minimal span, got [%v, %v]", *b.Start, *b.End)
	}
}

func TestRepairUsesSegmentBoundaries(t *testing.T) {
	seg := Segment{Start: 1.0, End: 1.2, Words: []Word{untimed("only")}}
	w := Repair(seg, DefaultRepairOptions()).Words[0]
	if !approx(*w.Start, 1.0) || !approx(*w.End, 1.2) {
		t.Fatalf("expected segment bounds, got [%v, %v]", *w.Start, *w.End)
	}
}

func TestRepairKeepsExistingStart(t *testing.T) {
	seg := Segment{Start: 0, End: 5, Words: []Word{
		{Text: "a", Start: ptr(1.0)},
	}}
	w := Repair(seg, DefaultRepairOptions()).Words[0]
	if !approx(*w.Start, 1.0) || !approx(*w.End, 1.3) {
		t.Fatalf("unexpected span [%v, %v]", *w.Start, *w.End)
	}
}

func TestRepairClampsLongWords(t *testing.T) {
	seg := Segment{Start: 0, End: 10, Words: []Word{timed("long", 2, 6)}}
	w := Repair(seg, DefaultRepairOptions()).Words[0]
	if !approx(*w.End, 3.5) {
		t.Fatalf("expected 1.5s cap, got end %v", *w.End)
	}
}

package subtitles

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// punctuation terminates a cue and is stripped from display text. The literal
// period is deliberately absent so decimals and abbreviations survive.
var punctuation = map[rune]struct{}{
	'?': {}, '!': {}, '。': {}, '？': {}, '！': {}, '…': {},
	'；': {}, ';': {}, ',': {}, '，': {},
}

// IsPunctuation reports whether text, once trimmed, is a single cue
// punctuation mark and therefore carries no speech content.
func IsPunctuation(text string) bool {
	trimmed := strings.TrimSpace(text)
	r, size := utf8.DecodeRuneInString(trimmed)
	if size == 0 || size != len(trimmed) {
		return false
	}
	_, ok := punctuation[r]
	return ok
}

func isContent(w Word) bool {
	return !IsPunctuation(w.Text)
}

func isASCII(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// endsCue reports whether a cue should close after word. A trailing period is
// only a terminator when splitOnPeriod is set and the next word does not start
// with a digit.
func endsCue(word, next string, splitOnPeriod bool) bool {
	last, size := utf8.DecodeLastRuneInString(word)
	if size == 0 {
		return false
	}
	if last == '.' {
		if !splitOnPeriod {
			return false
		}
		first, _ := utf8.DecodeRuneInString(strings.TrimSpace(next))
		return !unicode.IsDigit(first)
	}
	_, ok := punctuation[last]
	return ok
}

// joinText appends b to a. Space-delimited scripts get a separating space
// unless b opens with punctuation; other scripts are concatenated.
func joinText(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	last, _ := utf8.DecodeLastRuneInString(a)
	first, _ := utf8.DecodeRuneInString(b)
	switch {
	case unicode.IsSpace(last) || unicode.IsSpace(first):
		return a + b
	case unicode.IsPunct(first):
		return a + b
	case last < utf8.RuneSelf && first < utf8.RuneSelf:
		return a + " " + b
	default:
		return a + b
	}
}

// DisplayText strips every cue punctuation mark except the literal period and
// collapses whitespace.
func DisplayText(raw string) string {
	stripped := strings.Map(func(r rune) rune {
		if _, ok := punctuation[r]; ok {
			return -1
		}
		return r
	}, raw)
	return strings.Join(strings.Fields(stripped), " ")
}

func normalizeWord(text string) string {
	return norm.NFC.String(text)
}

func runeLen(text string) int {
	return utf8.RuneCountInString(text)
}

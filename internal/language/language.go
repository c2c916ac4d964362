package language

import (
	"strings"

	textlang "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// supported lists the languages the dubbing back-ends are expected to handle.
// Codes outside it still pass through Code unchanged.
var supported = []textlang.Tag{
	textlang.English, textlang.Spanish, textlang.French, textlang.German,
	textlang.Italian, textlang.Portuguese, textlang.Japanese, textlang.Korean,
	textlang.Chinese, textlang.Russian, textlang.Arabic, textlang.Hindi,
	textlang.Dutch, textlang.Polish, textlang.Swedish, textlang.Danish,
	textlang.Norwegian, textlang.Finnish, textlang.Turkish, textlang.Ukrainian,
	textlang.Czech, textlang.Greek, textlang.Hebrew, textlang.Indonesian,
	textlang.Vietnamese, textlang.Thai,
}

// bibliographic ISO 639-2/B codes still common in media tags.
var bibliographic = map[string]string{
	"chi": "zh", "cze": "cs", "dut": "nl", "fre": "fr", "ger": "de", "gre": "el",
}

type entry struct {
	code string
	name string
}

var index = buildIndex()

// buildIndex keys every supported language by its 639-1 code, 639-2/T code,
// lowercased English name and any bibliographic alias.
func buildIndex() map[string]entry {
	names := display.Languages(textlang.English)
	idx := make(map[string]entry, len(supported)*4)
	for _, tag := range supported {
		base, _ := tag.Base()
		e := entry{code: base.String(), name: names.Name(tag)}
		idx[e.code] = e
		idx[base.ISO3()] = e
		idx[strings.ToLower(e.name)] = e
	}
	for alias, code := range bibliographic {
		idx[alias] = idx[code]
	}
	return idx
}

func lookup(value string) (entry, bool) {
	e, ok := index[strings.ToLower(strings.TrimSpace(value))]
	return e, ok
}

// Code returns the ISO 639-1 code for any recognized code or language name.
// Unrecognized input is returned lowercased so recognisers and TTS commands
// can still try it.
func Code(value string) string {
	if e, ok := lookup(value); ok {
		return e.code
	}
	return strings.ToLower(strings.TrimSpace(value))
}

// DisplayName returns the English name of a recognized language, or the
// trimmed input when the language is unknown.
func DisplayName(value string) string {
	if e, ok := lookup(value); ok {
		return e.name
	}
	return strings.TrimSpace(value)
}

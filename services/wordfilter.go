package services

import (
	"strings"
	"unicode"
)

// maskRune is what filtered characters are replaced with, one per
// character so the masked span keeps the original length.
const maskRune = '*'

// defaultBlockedTerms is the bundled filter list, applied in order.
// Order matters: a later term that overlaps an already-masked span
// matches the mask characters, not the original text.
var defaultBlockedTerms = []string{
	"damn",
	"hell",
	"crap",
	"bastard",
	"idiot",
	"moron",
	"stupid",
}

// WordFilter redacts disallowed terms from outgoing chat messages before
// they are persisted. It runs on the server so a modified client cannot
// bypass it.
type WordFilter struct {
	terms []string
}

// NewWordFilter builds a filter over the bundled term list.
func NewWordFilter() *WordFilter {
	return &WordFilter{terms: defaultBlockedTerms}
}

// NewWordFilterWithTerms builds a filter over a caller-supplied list,
// preserving list order.
func NewWordFilterWithTerms(terms []string) *WordFilter {
	return &WordFilter{terms: terms}
}

// Apply replaces every case-insensitive occurrence of each term with a
// run of the mask character, one per masked character, one term at a
// time in list order. Filtering is idempotent for a fixed list: masked
// spans contain no letters, so no term can match them again.
func (f *WordFilter) Apply(text string) string {
	for _, term := range f.terms {
		if term == "" {
			continue
		}
		text = maskAll(text, term)
	}
	return text
}

// maskAll matches rune-wise. Folding ToLower can change a rune's byte
// length, so byte offsets into a lowered copy do not address the
// original text; comparing folded runes keeps the two aligned.
func maskAll(text, term string) string {
	termRunes := []rune(strings.ToLower(term))
	if len(termRunes) == 0 {
		return text
	}

	textRunes := []rune(text)
	folded := make([]rune, len(textRunes))
	for i, r := range textRunes {
		folded[i] = unicode.ToLower(r)
	}

	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(textRunes) {
		if runesMatchAt(folded, termRunes, i) {
			for range termRunes {
				b.WriteRune(maskRune)
			}
			i += len(termRunes)
			continue
		}
		b.WriteRune(textRunes[i])
		i++
	}
	return b.String()
}

func runesMatchAt(text, term []rune, at int) bool {
	if at+len(term) > len(text) {
		return false
	}
	for k, r := range term {
		if text[at+k] != r {
			return false
		}
	}
	return true
}

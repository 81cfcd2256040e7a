// internal/matching/tokenizer.go
package matching

import (
	"strings"
	"unicode/utf8"
)

// Accented letters and joiners kept as-is during normalization. Everything
// else outside [a-z0-9_] and whitespace is replaced with a space.
const keptRunes = "àâéèêîôûçëüï'-"

// Tokenize normalizes raw text into lowercase word tokens. Punctuation is
// stripped, accented letters and hyphen/apostrophe-joined words survive, and
// single-character tokens are dropped as noise. Pure function, never fails;
// empty or all-punctuation input yields an empty slice.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case strings.ContainsRune(keptRunes, r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	var tokens []string
	for _, field := range strings.Fields(b.String()) {
		if utf8.RuneCountInString(field) > 1 {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

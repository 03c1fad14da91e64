// Package normalize canonicalizes raw utterance text before feature
// extraction and slot validation. Speech-to-text output varies in casing,
// spacing, and diacritics; everything downstream assumes the normalized form.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Text lowercases the utterance, strips control characters and combining
// accents, and collapses runs of whitespace to single spaces.
func Text(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	wrote := false
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		switch {
		case r == 0 || r == 0xFFFD || unicode.IsControl(r):
			continue
		case unicode.In(r, unicode.Mn):
			// Combining diacritical mark left over from NFD.
			continue
		case unicode.IsSpace(r):
			space = wrote
		default:
			if space {
				b.WriteRune(' ')
				space = false
			}
			b.WriteRune(r)
			wrote = true
		}
	}
	return b.String()
}

// Tokens normalizes the utterance and splits it into word tokens. Punctuation
// is dropped except inside numbers, so "45.50" survives but "okay," becomes
// "okay".
func Tokens(s string) []string {
	var tokens []string
	for _, field := range strings.Fields(Text(s)) {
		if tok := trimPunct(field); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// trimPunct removes leading and trailing punctuation from a token. Interior
// runes are kept as-is.
func trimPunct(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText applies Unicode NFKC normalization and trims surrounding
// whitespace. Tamil input arrives from browsers and transliteration keyboards
// in mixed composed and decomposed forms; NFKC folds both to one spelling so
// that equal-looking strings compare equal.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.TrimSpace(normed)
	// Strip control characters except newlines and tabs.
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return normed
}

// NormalizeAll returns a new slice with every element normalized.
func NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = NormalizeText(t)
	}
	return out
}

// FoldTokens lowercases the text and splits it on whitespace. This is the
// token view used by lexical matching; Tamil has no case so folding only
// affects embedded Latin fragments.
func FoldTokens(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

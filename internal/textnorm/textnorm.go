// Package textnorm normalises free text into the unigram/bigram/trigram
// fragments used throughout indexing and fuzzy matching.
package textnorm

import (
	"strings"
	"unicode"
)

// Clean lowercases text, collapses punctuation into whitespace and trims
// runs of whitespace down to single spaces. It never removes a character
// that could be meaningful to a later match, only normalises separators.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	lastWasSpace := true // trims leading space for free
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastWasSpace = false
		default:
			if !lastWasSpace {
				b.WriteByte(' ')
				lastWasSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// Words splits cleaned text on whitespace into unigrams.
func Words(cleaned string) []string {
	if cleaned == "" {
		return nil
	}
	return strings.Fields(cleaned)
}

// NGrams joins a window of n consecutive words with single spaces,
// returning one string per window start position.
func NGrams(words []string, n int) []string {
	if n <= 0 || len(words) < n {
		return nil
	}
	grams := make([]string, 0, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		grams = append(grams, strings.Join(words[i:i+n], " "))
	}
	return grams
}

// ToWords normalises text and returns its unigram, bigram and trigram
// fragments, mirroring the three-tuple the IDF builder and fuzzy matcher
// both consume.
func ToWords(text string) (unigrams, bigrams, trigrams []string) {
	cleaned := Clean(text)
	words := Words(cleaned)
	return words, NGrams(words, 2), NGrams(words, 3)
}

// AlphanumericCollapse strips everything but letters and digits, with no
// separating whitespace at all. Used to fold "Er-Force" and "erforce" onto
// the same fragment for fuzzy suggestion.
func AlphanumericCollapse(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

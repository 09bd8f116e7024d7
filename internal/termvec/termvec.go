// Package termvec turns raw text into term-frequency vectors.
//
// Tokenization is deliberately literal: punctuation is deleted before
// the text is split on single spaces, so "well-known" becomes the one
// token "wellknown". Stored fixtures depend on this.
package termvec

import (
	"strings"
	"unicode"

	"genresim/internal/domain"
)

// Counter is the default Vectorizer: raw occurrence counts per term.
type Counter struct{}

// Vectorize implements domain.Vectorizer.
func (Counter) Vectorize(text string) domain.Vector { return Frequencies(text) }

// Tokenize strips every Unicode punctuation rune, splits on the space
// character, lower-cases and trims each fragment and drops empty ones.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, text)
	raw := strings.Split(stripped, " ")
	out := raw[:0]
	for _, frag := range raw {
		frag = strings.TrimFunc(strings.ToLower(frag), isControlOrSpace)
		if frag == "" {
			continue
		}
		out = append(out, frag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Frequencies counts how many times each token of text occurs. The
// values sum to the number of tokens.
func Frequencies(text string) domain.Vector {
	tokens := Tokenize(text)
	tf := make(domain.Vector, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	return tf
}

// isControlOrSpace matches what is trimmed from fragment edges: the
// space character and everything below it.
func isControlOrSpace(r rune) bool { return r <= ' ' }

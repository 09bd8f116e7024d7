// Package summarizer describes a genre by the terms that dominate its
// centroid.
package summarizer

import (
	"cmp"
	"slices"

	"genresim/internal/domain"
)

// FrequencySummarizer ranks centroid terms by weight, skipping stopwords.
type FrequencySummarizer struct {
	stopwords map[string]struct{}
}

// NewFrequencySummarizer creates a summarizer with the default English
// stopword list.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{stopwords: defaultStopwords()}
}

// TopTerms returns at most k terms of centroid, heaviest first and ties
// by term. k <= 0 yields an empty slice.
func (s *FrequencySummarizer) TopTerms(centroid domain.Vector, k int) []domain.TermWeight {
	if k <= 0 {
		return []domain.TermWeight{}
	}
	terms := make([]domain.TermWeight, 0, len(centroid))
	for term, w := range centroid {
		if _, stop := s.stopwords[term]; stop || w <= 0 {
			continue
		}
		terms = append(terms, domain.TermWeight{Term: term, Weight: w})
	}
	slices.SortFunc(terms, func(a, b domain.TermWeight) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		return cmp.Compare(a.Term, b.Term)
	})
	if len(terms) > k {
		terms = terms[:k]
	}
	// Normalize against the heaviest term
	if len(terms) > 0 {
		maxW := terms[0].Weight
		for i := range terms {
			terms[i].Weight /= maxW
		}
	}
	return terms
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
		"i", "you", "my", "your", "we", "they", "have", "has", "had", "do", "does", "not", "no",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

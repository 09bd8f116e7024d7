package summarizer

import (
	"reflect"
	"testing"

	"genresim/internal/domain"
)

func TestTopTerms(t *testing.T) {
	centroid := domain.Vector{
		"synthwave": 1,
		"the":       1,
		"chillwave": 0.5,
		"neon":      0.5,
		"retro":     0.25,
		"gone":      0,
	}
	s := NewFrequencySummarizer()

	tests := []struct {
		name string
		k    int
		want []domain.TermWeight
	}{
		{"top two with tie", 2, []domain.TermWeight{{Term: "synthwave", Weight: 1}, {Term: "chillwave", Weight: 0.5}}},
		{"all non-stopwords", 10, []domain.TermWeight{{Term: "synthwave", Weight: 1}, {Term: "chillwave", Weight: 0.5}, {Term: "neon", Weight: 0.5}, {Term: "retro", Weight: 0.25}}},
		{"zero", 0, []domain.TermWeight{}},
		{"negative", -1, []domain.TermWeight{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.TopTerms(centroid, tt.k); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopTerms(%d) = %v, want %v", tt.k, got, tt.want)
			}
		})
	}
}

func TestTopTermsNormalizes(t *testing.T) {
	got := NewFrequencySummarizer().TopTerms(domain.Vector{"a1": 0.5, "b2": 0.25}, 5)
	want := []domain.TermWeight{{Term: "a1", Weight: 1}, {Term: "b2", Weight: 0.5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopTerms = %v, want %v", got, want)
	}
}

func TestTopTermsEmpty(t *testing.T) {
	if got := NewFrequencySummarizer().TopTerms(nil, 3); len(got) != 0 {
		t.Errorf("TopTerms(nil) = %v", got)
	}
}

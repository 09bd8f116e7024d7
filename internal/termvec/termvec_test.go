package termvec

import (
	"reflect"
	"testing"

	"genresim/internal/domain"
)

func TestFrequencies(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Vector
	}{
		{"comma", "hello, world", domain.Vector{"hello": 1, "world": 1}},
		{"case folding", "Hello hello HELLO", domain.Vector{"hello": 3}},
		{"hyphen merges words", "a well-known fact", domain.Vector{"a": 1, "wellknown": 1, "fact": 1}},
		{"unicode punctuation", "“quoted” don't stop…", domain.Vector{"quoted": 1, "dont": 1, "stop": 1}},
		{"repeated spaces", "  spaced   out  ", domain.Vector{"spaced": 1, "out": 1}},
		{"punctuation only", "... !!! ,,,", domain.Vector{}},
		{"empty", "", domain.Vector{}},
		{"numbers are kept", "route 66, route 1", domain.Vector{"route": 2, "66": 1, "1": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Frequencies(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Frequencies(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFrequenciesSumEqualsTokenCount(t *testing.T) {
	text := "I love working to music. chillwave, synthwave, you name it. I love it"
	tokens := Tokenize(text)
	sum := 0.0
	for _, v := range Frequencies(text) {
		sum += v
	}
	if sum != float64(len(tokens)) {
		t.Errorf("sum of counts = %v, want %d", sum, len(tokens))
	}
}

func TestFrequenciesDeterministic(t *testing.T) {
	text := "movies are cool. especially those that have good music"
	first := Frequencies(text)
	for i := 0; i < 10; i++ {
		if got := Frequencies(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: %v, want %v", i, got, first)
		}
	}
}

func TestTokenizeSplitsOnSpaceOnly(t *testing.T) {
	// Tabs inside a fragment are not separators; only edge runes are trimmed.
	got := Tokenize("\tleft right\t")
	want := []string{"left", "right"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %q, want %q", got, want)
	}
	got = Tokenize("a\tb")
	if len(got) != 1 || got[0] != "a\tb" {
		t.Errorf("Tokenize(a\\tb) = %q, want one fragment", got)
	}
}

func TestCounterImplementsVectorizer(t *testing.T) {
	var v domain.Vectorizer = Counter{}
	if got := v.Vectorize("x x y"); got["x"] != 2 || got["y"] != 1 {
		t.Errorf("Vectorize = %v", got)
	}
}

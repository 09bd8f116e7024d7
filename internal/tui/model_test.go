package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"genresim/internal/domain"
)

type fakePort struct {
	scores []domain.SimilarityScore
	docs   map[string][]string
	err    error
	lastN  int
}

func (f *fakePort) RankGenres(_ string, n int) ([]domain.SimilarityScore, error) {
	f.lastN = n
	return f.scores, f.err
}

func (f *fakePort) DocumentsInGenre(_ context.Context, genre string) ([]string, error) {
	return f.docs[genre], nil
}

func (f *fakePort) GenreProfile(genre string, _ int) []domain.TermWeight {
	if genre == "music" {
		return []domain.TermWeight{{Term: "synthwave", Weight: 1}}
	}
	return nil
}

func (f *fakePort) Genres() []string {
	out := make([]string, 0, len(f.docs))
	for g := range f.docs {
		out = append(out, g)
	}
	return out
}

func typeAndEnter(t *testing.T, m tea.Model, text string) tea.Model {
	t.Helper()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func TestRankAndNavigate(t *testing.T) {
	port := &fakePort{
		scores: []domain.SimilarityScore{{Genre: "music", Score: 0.26}, {Genre: "film", Score: 0.14}},
		docs:   map[string][]string{"music": {"123"}, "film": {"456", "789"}},
	}
	var m tea.Model = New(port, "2 genres")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = typeAndEnter(t, m, "synthwave music")

	if port.lastN != 2 {
		t.Errorf("RankGenres n = %d, want number of genres (2)", port.lastN)
	}
	view := m.View()
	for _, want := range []string{"music", "film", "0.260", "music: 123 | top: synthwave"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.(Model).cursor; got != 1 {
		t.Fatalf("cursor after down = %d", got)
	}
	if !strings.Contains(m.View(), "film: 456, 789") {
		t.Errorf("footer did not follow selection:\n%s", m.View())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := m.(Model).cursor; got != 0 {
		t.Errorf("cursor did not wrap: %d", got)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := m.(Model).cursor; got != 1 {
		t.Errorf("cursor after up = %d", got)
	}
}

func TestRankError(t *testing.T) {
	port := &fakePort{err: errors.New("boom"), docs: map[string][]string{}}
	var m tea.Model = New(port, "")
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = typeAndEnter(t, m, "anything")
	if !strings.Contains(m.View(), "Error: boom") {
		t.Errorf("view missing error:\n%s", m.View())
	}
}

func TestQuit(t *testing.T) {
	m := New(&fakePort{}, "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c did not quit")
	}
}

func TestScoreBar(t *testing.T) {
	if got := strings.Count(scoreBar(0.5, 10), "█"); got != 5 {
		t.Errorf("filled = %d, want 5", got)
	}
	if got := strings.Count(scoreBar(2, 4), "░"); got != 0 {
		t.Errorf("overflow score left %d empty cells", got)
	}
}

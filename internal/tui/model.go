package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"genresim/internal/domain"
)

// RankPort is the TUI-facing subset of the classification service.
type RankPort interface {
	RankGenres(text string, n int) ([]domain.SimilarityScore, error)
	DocumentsInGenre(ctx context.Context, genre string) ([]string, error)
	GenreProfile(genre string, k int) []domain.TermWeight
	Genres() []string
}

const (
	maxFooterIDs   = 8
	footerTopTerms = 5
)

// Model is the Bubble Tea model for the genre ranking console.
type Model struct {
	service  RankPort
	input    textinput.Model
	viewport viewport.Model
	scores   []domain.SimilarityScore
	docIDs   []string
	topTerms []domain.TermWeight
	summary  string
	status   string
	cursor   int
	ready    bool
}

// New creates a console model. summary is shown under the header.
func New(service RankPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a document and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, summary: summary, status: "Ready. Type text to classify."}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 2 + qh + 1 // lines outside the results box
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.renderScores())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			if text := strings.TrimSpace(m.input.Value()); text != "" {
				m.rank(text)
				return m, nil
			}
		case "down":
			if len(m.scores) > 0 {
				m.cursor = (m.cursor + 1) % len(m.scores)
				m.selectionChanged()
				return m, nil
			}
		case "up":
			if len(m.scores) > 0 {
				m.cursor = (m.cursor - 1 + len(m.scores)) % len(m.scores)
				m.selectionChanged()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) rank(text string) {
	scores, err := m.service.RankGenres(text, len(m.service.Genres()))
	if err != nil {
		m.status = "Error: " + err.Error()
		m.scores = nil
		m.docIDs = nil
	} else {
		m.status = fmt.Sprintf("%d genre(s) ranked", len(scores))
		m.scores = scores
		m.cursor = 0
		m.loadDocIDs()
	}
	m.viewport.SetContent(m.renderScores())
}

func (m *Model) selectionChanged() {
	m.loadDocIDs()
	m.viewport.SetContent(m.renderScores())
}

func (m *Model) loadDocIDs() {
	m.docIDs = nil
	m.topTerms = nil
	if len(m.scores) == 0 {
		return
	}
	genre := m.scores[m.cursor].Genre
	ids, err := m.service.DocumentsInGenre(context.Background(), genre)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	m.docIDs = ids
	m.topTerms = m.service.GenreProfile(genre, footerTopTerms)
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Genre Similarity")
	summary := dimStyle.Render(m.summary)
	results := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + m.renderFooter() + "\n" + status
}

func (m Model) renderScores() string {
	if len(m.scores) == 0 {
		return "No rankings yet."
	}
	width := 0
	for _, s := range m.scores {
		width = max(width, lipgloss.Width(s.Genre))
	}
	barWidth := max(10, m.viewport.Width-width-16)
	var b strings.Builder
	for i, s := range m.scores {
		line := fmt.Sprintf("%-*s %s %.3f", width, s.Genre, scoreBar(s.Score, barWidth), s.Score)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(m.scores)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) renderFooter() string {
	if len(m.scores) == 0 {
		return ""
	}
	genre := m.scores[m.cursor].Genre
	ids := m.docIDs
	more := ""
	if len(ids) > maxFooterIDs {
		more = fmt.Sprintf(" (+%d more)", len(ids)-maxFooterIDs)
		ids = ids[:maxFooterIDs]
	}
	line := fmt.Sprintf("%s: %s%s", genre, strings.Join(ids, ", "), more)
	if len(m.topTerms) > 0 {
		terms := make([]string, len(m.topTerms))
		for i, tw := range m.topTerms {
			terms[i] = tw.Term
		}
		line += " | top: " + strings.Join(terms, " ")
	}
	return dimStyle.Render(line)
}

// scoreBar renders score in [0, 1] as a fixed-width bar.
func scoreBar(score float64, width int) string {
	score = min(max(score, 0), 1)
	filled := int(score*float64(width) + 0.5)
	return barStyle.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Package tui is the terminal flashcard viewer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	fsrs "github.com/open-spaced-repetition/go-fsrs"

	"flash-gen/internal/models"
	"flash-gen/internal/services"
	"flash-gen/internal/session"
)

var (
	primary = lipgloss.Color("#8B5CF6")
	success = lipgloss.Color("#22C55E")
	accent  = lipgloss.Color("#F97316")
	errCol  = lipgloss.Color("#F43F5E")
	dim     = lipgloss.Color("#94A3B8")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(primary)
	questionStyle = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	answerStyle   = lipgloss.NewStyle().Foreground(success)
	buttonStyle   = lipgloss.NewStyle().Foreground(dim)
	warningStyle  = lipgloss.NewStyle().Foreground(accent)
	errorStyle    = lipgloss.NewStyle().Foreground(errCol)
	hintStyle     = lipgloss.NewStyle().Foreground(dim).Italic(true)
)

// Generator produces flashcards from source text.
type Generator interface {
	Generate(ctx context.Context, text string, numCards int, language string) ([]models.Flashcard, error)
}

// Request is what the viewer (re)generates from.
type Request struct {
	Text     string
	NumCards int
	Language string
}

type generatedMsg struct {
	cards []models.Flashcard
	err   error
}

// Model is the Bubble Tea model of the study screen.
type Model struct {
	sess     *session.Session
	gen      Generator
	req      Request
	selected int
	busy     bool
	warning  string
	errMsg   string
	width    int
	now      func() time.Time
}

// New creates a viewer over sess. It generates on start when sess is empty,
// and stays busy until that first result arrives.
func New(sess *session.Session, gen Generator, req Request) Model {
	return Model{sess: sess, gen: gen, req: req, busy: sess.Len() == 0, now: time.Now}
}

func (m Model) Init() tea.Cmd {
	if m.sess.Len() > 0 {
		return nil
	}
	return m.generate()
}

func (m Model) generate() tea.Cmd {
	gen, req := m.gen, m.req
	return func() tea.Msg {
		cards, err := gen.Generate(context.Background(), req.Text, req.NumCards, req.Language)
		return generatedMsg{cards: cards, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case generatedMsg:
		m.busy = false
		m.warning, m.errMsg = "", ""
		switch {
		case errors.Is(msg.err, services.ErrNoSourceText):
			m.warning = services.WarningNoText
		case msg.err != nil:
			m.errMsg = msg.err.Error()
		case !m.sess.Replace(msg.cards):
			m.warning = services.WarningUnstructured
		default:
			m.selected = 0
		}
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	n := m.sess.Len()
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < n-1 {
			m.selected++
		}
	case "space", " ", "enter":
		if n > 0 {
			_ = m.sess.Toggle(m.selected)
		}
	case "r":
		if !m.busy {
			m.busy = true
			m.warning, m.errMsg = "", ""
			return m, m.generate()
		}
	case "1", "2", "3", "4":
		if n > 0 {
			rating := fsrs.Rating(key[0] - '0')
			if _, err := m.sess.Review(m.selected, rating, m.now().UTC()); err != nil {
				m.errMsg = err.Error()
			}
		}
	}
	return m, nil
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

func (m Model) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📚 Flash Card Generator"))
	b.WriteString("\n\n")

	if m.busy || (m.sess.Len() == 0 && m.warning == "" && m.errMsg == "") {
		b.WriteString(hintStyle.Render("Generating flashcards..."))
		b.WriteString("\n\n")
	}
	if m.warning != "" {
		b.WriteString(warningStyle.Render("⚠️ " + m.warning))
		b.WriteString("\n\n")
	}
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render("Error: " + m.errMsg))
		b.WriteString("\n\n")
	}

	wrap := lipgloss.NewStyle()
	if m.width > 4 {
		wrap = wrap.Width(m.width - 4)
	}

	for _, card := range m.sess.View().Cards {
		cursor := "  "
		qStyle := questionStyle
		if card.Index == m.selected {
			cursor = "› "
			qStyle = selectedStyle
		}
		b.WriteString(cursor + wrap.Inherit(qStyle).Render(card.QuestionLabel) + "\n")
		b.WriteString("  " + buttonStyle.Render("["+card.ButtonLabel+"]"))
		if card.LastRating != "" {
			b.WriteString(buttonStyle.Render(fmt.Sprintf("  reviewed: %s", card.LastRating)))
		}
		b.WriteString("\n")
		if card.Revealed {
			b.WriteString("  " + wrap.Inherit(answerStyle).Render(card.AnswerLabel) + "\n")
		}
		b.WriteString("  ---\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑↓/jk move · space/enter show/hide · 1-4 rate · r regenerate · q quit"))
	return b.String()
}

// Run starts the viewer and blocks until it exits.
func Run(sess *session.Session, gen Generator, req Request) error {
	p := tea.NewProgram(New(sess, gen, req))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

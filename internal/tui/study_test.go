package tui

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flash-gen/internal/models"
	"flash-gen/internal/services"
	"flash-gen/internal/session"
)

type stubGenerator struct {
	replies [][]models.Flashcard
	errs    []error
	calls   []Request
}

func (g *stubGenerator) Generate(_ context.Context, text string, numCards int, language string) ([]models.Flashcard, error) {
	g.calls = append(g.calls, Request{Text: text, NumCards: numCards, Language: language})
	i := len(g.calls) - 1
	var err error
	if i < len(g.errs) {
		err = g.errs[i]
	}
	if i < len(g.replies) {
		return g.replies[i], err
	}
	return []models.Flashcard{}, err
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func twoCards() []models.Flashcard {
	return []models.Flashcard{
		{Question: "What is 2+2?", Answer: "4"},
		{Question: "Capital of France?", Answer: "Paris"},
	}
}

// started runs Init's generation and feeds the result back into the model.
func started(t *testing.T, gen *stubGenerator) (Model, *session.Session) {
	t.Helper()
	sess := session.New("tui")
	m := New(sess, gen, Request{Text: "notes", NumCards: 2, Language: "auto"})

	cmd := m.Init()
	require.NotNil(t, cmd)
	updated, _ := m.Update(cmd())
	return updated.(Model), sess
}

func TestInit_Generates(t *testing.T) {
	gen := &stubGenerator{replies: [][]models.Flashcard{twoCards()}}
	m, sess := started(t, gen)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, Request{Text: "notes", NumCards: 2, Language: "auto"}, gen.calls[0])
	assert.Equal(t, 2, sess.Len())
	assert.Contains(t, m.render(), "Q1: What is 2+2?")
	assert.Contains(t, m.render(), "[Show Answer]")
}

func TestInit_SkipsWhenSessionHasCards(t *testing.T) {
	sess := session.New("tui")
	sess.Replace(twoCards())
	m := New(sess, &stubGenerator{}, Request{})
	assert.Nil(t, m.Init())
}

func TestRegenerate_IgnoredWhileInitialLoadPending(t *testing.T) {
	gen := &stubGenerator{replies: [][]models.Flashcard{twoCards()}}
	m := New(session.New("tui"), gen, Request{Text: "notes", NumCards: 2})

	initCmd := m.Init()
	require.NotNil(t, initCmd)
	assert.True(t, m.busy)

	updated, cmd := m.Update(keyPress('r'))
	m = updated.(Model)
	assert.Nil(t, cmd)

	updated, _ = m.Update(initCmd())
	m = updated.(Model)
	assert.False(t, m.busy)
	assert.Len(t, gen.calls, 1)
}

func TestToggleSelected(t *testing.T) {
	gen := &stubGenerator{replies: [][]models.Flashcard{twoCards()}}
	m, sess := started(t, gen)

	updated, _ := m.Update(keyPress('j'))
	m = updated.(Model)
	updated, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = updated.(Model)

	view := sess.View()
	assert.False(t, view.Cards[0].Revealed)
	assert.True(t, view.Cards[1].Revealed)
	assert.Contains(t, m.render(), "A2: Paris")
	assert.Contains(t, m.render(), "[Hide Answer]")

	updated, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m = updated.(Model)
	assert.False(t, sess.View().Cards[1].Revealed)
	assert.NotContains(t, m.render(), "A2: Paris")
}

func TestNavigationClamps(t *testing.T) {
	gen := &stubGenerator{replies: [][]models.Flashcard{twoCards()}}
	m, _ := started(t, gen)

	for range 5 {
		updated, _ := m.Update(keyPress('j'))
		m = updated.(Model)
	}
	assert.Equal(t, 1, m.selected)

	for range 5 {
		updated, _ := m.Update(keyPress('k'))
		m = updated.(Model)
	}
	assert.Equal(t, 0, m.selected)
}

func TestRegenerate_EmptyKeepsCards(t *testing.T) {
	gen := &stubGenerator{replies: [][]models.Flashcard{twoCards(), {}}}
	m, sess := started(t, gen)
	require.NoError(t, sess.Toggle(0))

	updated, cmd := m.Update(keyPress('r'))
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	updated, _ = m.Update(cmd())
	m = updated.(Model)
	assert.False(t, m.busy)
	assert.Equal(t, services.WarningUnstructured, m.warning)
	assert.True(t, sess.View().Cards[0].Revealed)
	assert.Contains(t, m.render(), services.WarningUnstructured)
}

func TestGenerateErrors(t *testing.T) {
	gen := &stubGenerator{errs: []error{services.ErrNoSourceText}}
	m, _ := started(t, gen)
	assert.Equal(t, services.WarningNoText, m.warning)

	gen = &stubGenerator{errs: []error{errors.New("completion provider unavailable")}}
	m, _ = started(t, gen)
	assert.Contains(t, m.render(), "Error: completion provider unavailable")
}

func TestReviewKeys(t *testing.T) {
	gen := &stubGenerator{replies: [][]models.Flashcard{twoCards()}}
	m, sess := started(t, gen)

	updated, _ := m.Update(keyPress('3'))
	m = updated.(Model)

	card := sess.View().Cards[0]
	assert.Equal(t, 1, card.Reps)
	assert.Equal(t, "good", card.LastRating)
	assert.Contains(t, m.render(), "reviewed: good")
}

func TestQuit(t *testing.T) {
	gen := &stubGenerator{replies: [][]models.Flashcard{twoCards()}}
	m, _ := started(t, gen)

	_, cmd := m.Update(keyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

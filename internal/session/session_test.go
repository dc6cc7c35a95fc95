package session

import (
	"testing"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flash-gen/internal/models"
)

func sampleCards() []models.Flashcard {
	return []models.Flashcard{
		{Question: "What is 2+2?", Answer: "4"},
		{Question: "Capital of France?", Answer: "Paris"},
		{Question: "H2O is?", Answer: "Water"},
	}
}

func TestReplace_ResetsRevealFlags(t *testing.T) {
	s := New("s1")
	require.True(t, s.Replace(sampleCards()))
	require.NoError(t, s.Toggle(1))

	require.True(t, s.Replace(sampleCards()[:2]))
	view := s.View()
	require.Len(t, view.Cards, 2)
	for _, c := range view.Cards {
		assert.False(t, c.Revealed)
		assert.Equal(t, ShowAnswerLabel, c.ButtonLabel)
		assert.Empty(t, c.Answer)
	}
}

func TestReplace_EmptyKeepsPriorState(t *testing.T) {
	s := New("s1")
	require.True(t, s.Replace(sampleCards()))
	require.NoError(t, s.Toggle(2))
	before := s.View()

	assert.False(t, s.Replace(nil))
	assert.False(t, s.Replace([]models.Flashcard{}))
	assert.Equal(t, before, s.View())
}

func TestReplace_CopiesInput(t *testing.T) {
	cards := sampleCards()
	s := New("s1")
	s.Replace(cards)
	cards[0].Question = "changed"
	assert.Equal(t, "What is 2+2?", s.Flashcards()[0].Question)
}

func TestToggle_FlipsOnlyIndex(t *testing.T) {
	s := New("s1")
	s.Replace(sampleCards())

	require.NoError(t, s.Toggle(1))
	view := s.View()
	assert.False(t, view.Cards[0].Revealed)
	assert.True(t, view.Cards[1].Revealed)
	assert.False(t, view.Cards[2].Revealed)

	assert.Equal(t, "Capital of France?", view.Cards[1].Question)
	assert.Equal(t, "Paris", view.Cards[1].Answer)
	assert.Equal(t, "A2: Paris", view.Cards[1].AnswerLabel)
	assert.Equal(t, HideAnswerLabel, view.Cards[1].ButtonLabel)

	require.NoError(t, s.Toggle(1))
	view = s.View()
	for _, c := range view.Cards {
		assert.False(t, c.Revealed)
	}
}

func TestToggle_OutOfRange(t *testing.T) {
	s := New("s1")
	assert.ErrorIs(t, s.Toggle(0), ErrCardIndex)

	s.Replace(sampleCards())
	assert.ErrorIs(t, s.Toggle(-1), ErrCardIndex)
	assert.ErrorIs(t, s.Toggle(3), ErrCardIndex)
}

func TestView_Labels(t *testing.T) {
	s := New("s1")
	s.Replace(sampleCards())
	view := s.View()

	assert.Equal(t, "Q1: What is 2+2?", view.Cards[0].QuestionLabel)
	assert.Equal(t, "Q3: H2O is?", view.Cards[2].QuestionLabel)
	assert.Empty(t, view.Cards[0].AnswerLabel)
	assert.Equal(t, view, s.View())
}

func TestView_EmptySession(t *testing.T) {
	view := New("s1").View()
	assert.NotNil(t, view.Cards)
	assert.Empty(t, view.Cards)
}

func TestReview(t *testing.T) {
	s := New("s1")
	s.Replace(sampleCards())
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	state, err := s.Review(0, fsrs.Good, now)
	require.NoError(t, err)
	assert.Equal(t, 1, state.Reps)
	assert.Equal(t, "good", state.LastRating)
	require.True(t, state.Due.Valid)
	assert.True(t, state.Due.Time.After(now))

	view := s.View()
	assert.Equal(t, 1, view.Cards[0].Reps)
	assert.NotNil(t, view.Cards[0].Due)
	assert.Equal(t, 0, view.Cards[1].Reps)
	assert.Nil(t, view.Cards[1].Due)

	_, err = s.Review(5, fsrs.Good, now)
	assert.ErrorIs(t, err, ErrCardIndex)
}

func TestReview_ResetByReplace(t *testing.T) {
	s := New("s1")
	s.Replace(sampleCards())
	_, err := s.Review(0, fsrs.Easy, time.Now())
	require.NoError(t, err)

	s.Replace(sampleCards())
	assert.Equal(t, 0, s.View().Cards[0].Reps)
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		raw  string
		want fsrs.Rating
	}{
		{"again", fsrs.Again},
		{"Hard", fsrs.Hard},
		{" good ", fsrs.Good},
		{"EASY", fsrs.Easy},
	}
	for _, tt := range tests {
		got, err := ParseRating(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, RatingName(got), RatingName(tt.want))
	}

	_, err := ParseRating("meh")
	assert.Error(t, err)
}

// Package session holds the flashcards of one user session together with their
// reveal flags and in-session review state.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs"

	"flash-gen/internal/models"
)

const (
	ShowAnswerLabel = "Show Answer"
	HideAnswerLabel = "Hide Answer"
)

// ErrCardIndex indicates an index outside the current flashcards.
var ErrCardIndex = errors.New("card index out of range")

// Session is the state of one viewer. The three slices always have equal length.
type Session struct {
	ID string

	mu        sync.Mutex
	cards     []models.Flashcard
	revealed  []bool
	reviews   []models.ReviewState
	params    fsrs.Parameters
	updatedAt time.Time
}

func New(id string) *Session {
	return &Session{
		ID:        id,
		params:    fsrs.DefaultParam(),
		updatedAt: time.Now().UTC(),
	}
}

// Replace swaps in a freshly generated set of flashcards with every answer
// hidden. An empty set leaves the session untouched and returns false.
func (s *Session) Replace(cards []models.Flashcard) bool {
	if len(cards) == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cards = append([]models.Flashcard(nil), cards...)
	s.revealed = make([]bool, len(cards))
	s.reviews = make([]models.ReviewState, len(cards))
	s.updatedAt = time.Now().UTC()
	return true
}

// Toggle flips the reveal flag of card i.
func (s *Session) Toggle(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.cards) {
		return fmt.Errorf("toggle card %d: %w", i, ErrCardIndex)
	}
	s.revealed[i] = !s.revealed[i]
	s.updatedAt = time.Now().UTC()
	return nil
}

// Review applies an FSRS rating to card i and returns its new state.
func (s *Session) Review(i int, rating fsrs.Rating, now time.Time) (models.ReviewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.cards) {
		return models.ReviewState{}, fmt.Errorf("review card %d: %w", i, ErrCardIndex)
	}

	state := &s.reviews[i]
	scheduling := s.params.Repeat(state.ToFSRSCard(), now)
	info, ok := scheduling[rating]
	if !ok {
		return models.ReviewState{}, fmt.Errorf("rating %d not supported", rating)
	}
	state.ApplyFSRSCard(info.Card)
	state.LastRating = RatingName(rating)
	s.updatedAt = now
	return *state, nil
}

func (s *Session) touch() {
	s.mu.Lock()
	s.updatedAt = time.Now().UTC()
	s.mu.Unlock()
}

// Len returns the number of flashcards.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

// Flashcards returns a copy of the current flashcards.
func (s *Session) Flashcards() []models.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Flashcard{}, s.cards...)
}

// View is a snapshot of a session for rendering.
type View struct {
	Cards []CardView `json:"cards"`
}

// CardView is one rendered card. Answer fields are only filled while revealed.
type CardView struct {
	Index         int    `json:"index"`
	Question      string `json:"question"`
	QuestionLabel string `json:"questionLabel"`
	Answer        string `json:"answer,omitempty"`
	AnswerLabel   string `json:"answerLabel,omitempty"`
	Revealed      bool   `json:"revealed"`
	ButtonLabel   string `json:"buttonLabel"`

	Reps       int        `json:"reps"`
	Due        *time.Time `json:"due,omitempty"`
	LastRating string     `json:"lastRating,omitempty"`
}

// View renders the current state without modifying it.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := View{Cards: make([]CardView, len(s.cards))}
	for i, card := range s.cards {
		cv := CardView{
			Index:         i,
			Question:      card.Question,
			QuestionLabel: fmt.Sprintf("Q%d: %s", i+1, card.Question),
			Revealed:      s.revealed[i],
			ButtonLabel:   ShowAnswerLabel,
			Reps:          s.reviews[i].Reps,
			LastRating:    s.reviews[i].LastRating,
		}
		if s.revealed[i] {
			cv.Answer = card.Answer
			cv.AnswerLabel = fmt.Sprintf("A%d: %s", i+1, card.Answer)
			cv.ButtonLabel = HideAnswerLabel
		}
		if s.reviews[i].Due.Valid {
			due := s.reviews[i].Due.Time
			cv.Due = &due
		}
		view.Cards[i] = cv
	}
	return view
}

// ParseRating maps again, hard, good or easy to an FSRS rating.
func ParseRating(raw string) (fsrs.Rating, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "again":
		return fsrs.Again, nil
	case "hard":
		return fsrs.Hard, nil
	case "good":
		return fsrs.Good, nil
	case "easy":
		return fsrs.Easy, nil
	default:
		return 0, fmt.Errorf("unknown rating %q", raw)
	}
}

// RatingName is the inverse of ParseRating.
func RatingName(r fsrs.Rating) string {
	switch r {
	case fsrs.Again:
		return "again"
	case fsrs.Hard:
		return "hard"
	case fsrs.Good:
		return "good"
	case fsrs.Easy:
		return "easy"
	default:
		return ""
	}
}

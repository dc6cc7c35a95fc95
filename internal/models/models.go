package models

import (
	"database/sql"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs"
)

// Flashcard is a question/answer pair generated from source material.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ReviewState is the in-session spaced repetition state of a single card.
type ReviewState struct {
	Due           sql.NullTime
	Stability     float64
	Difficulty    float64
	ElapsedDays   int
	ScheduledDays int
	Reps          int
	Lapses        int
	State         int
	LastReview    sql.NullTime
	LastRating    string
}

// CompletionEvent records one call to the completion service.
type CompletionEvent struct {
	ID           int64
	Provider     string
	Model        string
	PromptChars  int
	ReplyChars   int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage sql.NullString
	CreatedAt    time.Time
}

// UsageTotals aggregates completion events.
type UsageTotals struct {
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
}

func (r *ReviewState) ToFSRSCard() fsrs.Card {
	card := fsrs.Card{
		Stability:     r.Stability,
		Difficulty:    r.Difficulty,
		ElapsedDays:   uint64(max(r.ElapsedDays, 0)),
		ScheduledDays: uint64(max(r.ScheduledDays, 0)),
		Reps:          uint64(max(r.Reps, 0)),
		Lapses:        uint64(max(r.Lapses, 0)),
		State:         fsrs.State(max(r.State, 0)),
	}
	if r.Due.Valid {
		card.Due = r.Due.Time
	}
	if r.LastReview.Valid {
		card.LastReview = r.LastReview.Time
	}
	return card
}

func (r *ReviewState) ApplyFSRSCard(f fsrs.Card) {
	r.Due = sql.NullTime{Time: f.Due, Valid: !f.Due.IsZero()}
	r.Stability = f.Stability
	r.Difficulty = f.Difficulty
	r.ElapsedDays = int(f.ElapsedDays)
	r.ScheduledDays = int(f.ScheduledDays)
	r.Reps = int(f.Reps)
	r.Lapses = int(f.Lapses)
	r.State = int(f.State)
	r.LastReview = sql.NullTime{Time: f.LastReview, Valid: !f.LastReview.IsZero()}
}

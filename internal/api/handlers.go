package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"flash-gen/internal/session"
)

// sessionResponse is the JSON form of a session plus an optional warning.
type sessionResponse struct {
	Cards   []session.CardView `json:"cards"`
	Warning string             `json:"warning,omitempty"`
}

type reviewRequest struct {
	Rating string `json:"rating" validate:"required"`
}

type eventResponse struct {
	ID           int64     `json:"id"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	PromptChars  int       `json:"promptChars"`
	ReplyChars   int       `json:"replyChars"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	LatencyMs    int64     `json:"latencyMs"`
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse{Cards: sess.View().Cards})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	req, err := s.decodeGenerateRequest(w, r)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	warning, status, err := s.runGenerate(r.Context(), sess, req)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, status, sessionResponse{Cards: sess.View().Cards, Warning: warning})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	index, err := parseIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card index")
		return
	}
	if err := sess.Toggle(index); err != nil {
		writeError(w, indexErrorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Cards: sess.View().Cards})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	index, err := parseIndex(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid card index")
		return
	}

	var payload reviewRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	if err := s.validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest, "rating is required")
		return
	}
	rating, err := session.ParseRating(payload.Rating)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := sess.Review(index, rating, time.Now().UTC()); err != nil {
		writeError(w, indexErrorStatus(err), err.Error())
		return
	}
	cards := sess.View().Cards
	if index >= len(cards) {
		// Replaced by a concurrent generation.
		writeError(w, http.StatusConflict, "flashcards changed during review")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"card": cards[index]})
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		writeError(w, http.StatusServiceUnavailable, "usage log disabled")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || s.validate.Var(n, "min=1,max=200") != nil {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	events, err := s.events.ListEvents(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	totals, err := s.events.Totals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	items := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		items = append(items, eventResponse{
			ID:           ev.ID,
			Provider:     ev.Provider,
			Model:        ev.Model,
			PromptChars:  ev.PromptChars,
			ReplyChars:   ev.ReplyChars,
			InputTokens:  ev.InputTokens,
			OutputTokens: ev.OutputTokens,
			LatencyMs:    ev.LatencyMs,
			Success:      ev.Success,
			Error:        ev.ErrorMessage.String,
			CreatedAt:    ev.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": items,
		"totals": map[string]int{
			"calls":        totals.Calls,
			"failures":     totals.Failures,
			"inputTokens":  totals.InputTokens,
			"outputTokens": totals.OutputTokens,
		},
	})
}

func indexErrorStatus(err error) int {
	if errors.Is(err, session.ErrCardIndex) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func writeRequestError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		writeError(w, reqErr.status, reqErr.msg)
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"flash-gen/internal/models"
)

// EventService persists and reports completion events.
type EventService struct {
	db *sql.DB
}

func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// RecordCompletion stores one completion event.
func (s *EventService) RecordCompletion(ctx context.Context, event models.CompletionEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO completion_events (
			provider, model, prompt_chars, reply_chars, input_tokens, output_tokens,
			latency_ms, success, error_message, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`,
		event.Provider,
		event.Model,
		event.PromptChars,
		event.ReplyChars,
		event.InputTokens,
		event.OutputTokens,
		event.LatencyMs,
		boolToInt(event.Success),
		nullStringPtr(event.ErrorMessage),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert completion event: %w", err)
	}
	return nil
}

// ListEvents returns the most recent events, newest first.
func (s *EventService) ListEvents(ctx context.Context, limit int) ([]models.CompletionEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, provider, model, prompt_chars, reply_chars, input_tokens, output_tokens,
			   latency_ms, success, error_message, created_at
		FROM completion_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list completion events: %w", err)
	}
	defer rows.Close()

	events := []models.CompletionEvent{}
	for rows.Next() {
		var ev models.CompletionEvent
		if err := rows.Scan(
			&ev.ID,
			&ev.Provider,
			&ev.Model,
			&ev.PromptChars,
			&ev.ReplyChars,
			&ev.InputTokens,
			&ev.OutputTokens,
			&ev.LatencyMs,
			&ev.Success,
			&ev.ErrorMessage,
			&ev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan completion event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completion events: %w", err)
	}
	return events, nil
}

// Totals aggregates every recorded event.
func (s *EventService) Totals(ctx context.Context) (models.UsageTotals, error) {
	var totals models.UsageTotals
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			   COALESCE(SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END), 0),
			   COALESCE(SUM(input_tokens), 0),
			   COALESCE(SUM(output_tokens), 0)
		FROM completion_events;
	`).Scan(&totals.Calls, &totals.Failures, &totals.InputTokens, &totals.OutputTokens)
	if err != nil {
		return totals, fmt.Errorf("sum completion events: %w", err)
	}
	return totals, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullStringPtr(v sql.NullString) any {
	if v.Valid {
		return v.String
	}
	return nil
}

package llm

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"flash-gen/internal/models"
)

// EventRecorder stores completion events.
type EventRecorder interface {
	RecordCompletion(ctx context.Context, event models.CompletionEvent) error
}

// LoggingProvider is a decorator that logs every completion call and records it
// as an event, including calls whose reply is later discarded.
type LoggingProvider struct {
	inner    Provider
	provider string
	recorder EventRecorder
	log      *zap.Logger
}

// WithLogging wraps a Provider with event recording. A nil recorder only logs.
func WithLogging(p Provider, providerName string, recorder EventRecorder, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{inner: p, provider: providerName, recorder: recorder, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	latency := time.Since(start)

	event := models.CompletionEvent{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		PromptChars: promptChars(req),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		CreatedAt:   start.UTC(),
	}
	if resp != nil {
		event.ReplyChars = len(resp.Content)
		event.InputTokens = resp.Usage.InputTokens
		event.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			event.Model = resp.Model
		}
	}
	if err != nil {
		event.ErrorMessage = sql.NullString{Valid: true, String: err.Error()}
	}

	fields := []zap.Field{
		zap.String("provider", event.Provider),
		zap.String("model", event.Model),
		zap.Duration("latency", latency),
		zap.Int("input_tokens", event.InputTokens),
		zap.Int("output_tokens", event.OutputTokens),
	}
	if err != nil {
		l.log.Warn("completion failed", append(fields, zap.Error(err))...)
	} else {
		l.log.Info("completion finished", fields...)
	}

	if l.recorder != nil {
		if recErr := l.recorder.RecordCompletion(ctx, event); recErr != nil {
			l.log.Warn("record completion event", zap.Error(recErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func promptChars(req Request) int {
	n := 0
	for _, m := range req.Messages {
		n += len(m.Content)
	}
	return n
}

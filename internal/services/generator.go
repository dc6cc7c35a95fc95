package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"flash-gen/internal/cards"
	"flash-gen/internal/llm"
	"flash-gen/internal/models"
	"flash-gen/internal/prompt"
	"flash-gen/internal/source"
)

const (
	MinCards = 1
	MaxCards = 20
)

// User-facing warnings for generations that leave the current flashcards in place.
const (
	WarningUnstructured = "Could not generate flashcards in a structured format."
	WarningNoText       = "Please upload a file or write text first."
)

var (
	// ErrNoSourceText indicates there was nothing to generate flashcards from.
	ErrNoSourceText = errors.New("no source text")
	// ErrCardCount indicates a requested card count outside MinCards..MaxCards.
	ErrCardCount = errors.New("card count out of range")
	// ErrExtraction marks failures to read text out of an uploaded document.
	ErrExtraction = errors.New("extract source text")
)

// ProgressCallback is called while a generation runs to report its current step.
type ProgressCallback func(step, message string)

// GeneratorService turns source text into flashcards with a single completion call.
type GeneratorService struct {
	provider llm.Provider
	log      *zap.Logger
}

func NewGeneratorService(provider llm.Provider, log *zap.Logger) *GeneratorService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GeneratorService{provider: provider, log: log}
}

// Generate builds the prompt for text, requests a completion and parses the
// reply. An unusable reply yields an empty, non-nil slice and no error.
func (s *GeneratorService) Generate(ctx context.Context, text string, numCards int, language string) ([]models.Flashcard, error) {
	return s.GenerateWithProgress(ctx, text, numCards, language, nil)
}

func (s *GeneratorService) GenerateWithProgress(ctx context.Context, text string, numCards int, language string, progress ProgressCallback) ([]models.Flashcard, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoSourceText
	}
	if numCards < MinCards || numCards > MaxCards {
		return nil, fmt.Errorf("%w: %d", ErrCardCount, numCards)
	}

	if progress != nil {
		progress("request", fmt.Sprintf("Requesting %d flashcards from %s", numCards, s.provider.ModelID()))
	}

	resp, err := s.provider.Generate(ctx, llm.UserPrompt(prompt.Build(text, numCards, language)))
	if err != nil {
		return nil, fmt.Errorf("request completion: %w", err)
	}

	if progress != nil {
		progress("parse", "Parsing flashcards")
	}

	flashcards, err := cards.Decode(resp.Content)
	if err != nil {
		s.log.Warn("flashcard reply was not valid json",
			zap.Error(err),
			zap.Int("reply_chars", len(resp.Content)),
		)
	}

	if progress != nil {
		progress("complete", fmt.Sprintf("Generated %d flashcards", len(flashcards)))
	}
	return flashcards, nil
}

// GenerateFromSource resolves the upload or manual text and generates from it.
// Extraction failures are wrapped with ErrExtraction.
func (s *GeneratorService) GenerateFromSource(ctx context.Context, upload *source.Upload, manualText string, numCards int, language string, progress ProgressCallback) ([]models.Flashcard, error) {
	if progress != nil && upload != nil {
		progress("extract", fmt.Sprintf("Reading %s", upload.Name))
	}

	text, err := source.Resolve(upload, manualText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	return s.GenerateWithProgress(ctx, text, numCards, language, progress)
}

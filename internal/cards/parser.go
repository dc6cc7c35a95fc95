// Package cards turns free-form completion replies into flashcard records.
package cards

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"flash-gen/internal/models"
)

// SyntaxError reports a reply whose JSON candidate could not be decoded.
type SyntaxError struct {
	Candidate string
	Err       error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("decode flashcard json: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Parse converts a completion reply into flashcards. It never fails: any reply that
// cannot be decoded yields an empty slice.
func Parse(reply string) []models.Flashcard {
	cards, _ := Decode(reply)
	return cards
}

// Decode is Parse with the decoding failure exposed for logging. The returned slice
// is always non-nil and empty whenever err is non-nil.
func Decode(reply string) ([]models.Flashcard, error) {
	candidate := ExtractArray(reply)

	var root json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &root); err != nil {
		return []models.Flashcard{}, &SyntaxError{Candidate: candidate, Err: err}
	}

	var elements []json.RawMessage
	switch firstByte(root) {
	case '[':
		if err := json.Unmarshal(root, &elements); err != nil {
			return []models.Flashcard{}, &SyntaxError{Candidate: candidate, Err: err}
		}
	case '{':
		elements = []json.RawMessage{root}
	default:
		// Bare scalars carry no cards.
		return []models.Flashcard{}, nil
	}

	out := make([]models.Flashcard, 0, len(elements))
	for _, element := range elements {
		if firstByte(element) != '{' {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(element, &fields); err != nil {
			continue
		}
		out = append(out, models.Flashcard{
			Question: fieldText(fields["question"]),
			Answer:   fieldText(fields["answer"]),
		})
	}
	return out, nil
}

// ExtractArray trims the reply and narrows it to the widest span running from the
// first '[' to the last ']'. Without such a span the trimmed reply is returned.
func ExtractArray(reply string) string {
	content := strings.TrimSpace(reply)
	start := strings.Index(content, "[")
	if start == -1 {
		return content
	}
	end := strings.LastIndex(content, "]")
	if end <= start {
		return content
	}
	return content[start : end+1]
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// fieldText renders a JSON value as card text. Missing keys and null become "",
// strings are unquoted, anything else keeps its compact JSON form.
func fieldText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return string(trimmed)
	}
	return compact.String()
}

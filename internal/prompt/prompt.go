// Package prompt builds the instruction sent to the completion service.
package prompt

import (
	"fmt"
	"strings"
)

// AutoLanguage keeps the output in the language of the source text.
const AutoLanguage = "auto"

const rules = `STRICT RULES:
- Return ONLY a valid JSON array
- Each element must be an object with exactly two keys: "question" and "answer"
- No explanations, no extra text before or after JSON
- Keep language of output same as input unless specified.`

// Build returns the flashcard instruction for text. The text and card count are
// embedded verbatim; language adds an explicit output language unless it is
// AutoLanguage or empty.
func Build(text string, numCards int, language string) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("You are a smart assistant. Create %d flashcards from the text below.\n\n", numCards))
	builder.WriteString(rules)
	builder.WriteString("\n\n")
	if clause := languageClause(language); clause != "" {
		builder.WriteString(clause)
		builder.WriteString("\n\n")
	}
	builder.WriteString("Text:\n")
	builder.WriteString(text)
	return builder.String()
}

func languageClause(language string) string {
	language = strings.TrimSpace(language)
	if language == "" || language == AutoLanguage {
		return ""
	}
	return fmt.Sprintf("Generate in %s.", language)
}

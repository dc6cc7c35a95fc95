package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_EmbedsCountAndText(t *testing.T) {
	text := "Mitochondria are the powerhouse of the cell.\n  Indented line stays."
	got := Build(text, 7, AutoLanguage)

	assert.Contains(t, got, "Create 7 flashcards")
	assert.True(t, strings.HasSuffix(got, "Text:\n"+text))
	assert.Contains(t, got, `"question" and "answer"`)
	assert.Contains(t, got, "Return ONLY a valid JSON array")
}

func TestBuild_LanguageClause(t *testing.T) {
	tests := []struct {
		name     string
		language string
		want     string
	}{
		{name: "auto", language: "auto", want: ""},
		{name: "auto is case sensitive", language: "Auto", want: "Generate in Auto."},
		{name: "auto trimmed", language: " auto ", want: ""},
		{name: "empty", language: "", want: ""},
		{name: "explicit", language: "French", want: "Generate in French."},
		{name: "trimmed", language: "  German ", want: "Generate in German."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Build("text", 3, tt.language)
			if tt.want == "" {
				assert.NotContains(t, got, "Generate in")
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	assert.Equal(t, Build("same", 5, "Spanish"), Build("same", 5, "Spanish"))
}

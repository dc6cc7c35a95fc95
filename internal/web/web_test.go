package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flash-gen/internal/models"
	"flash-gen/internal/session"
)

func TestRender_EmptyPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Page{NumCards: 5, Language: "auto", MinCards: 1, MaxCards: 20}))

	html := buf.String()
	assert.Contains(t, html, "Flash Card Generator")
	assert.Contains(t, html, `name="file"`)
	assert.Contains(t, html, `name="text"`)
	assert.Contains(t, html, `min="1" max="20" value="5"`)
	assert.Contains(t, html, `value="auto"`)
	assert.NotContains(t, html, "Flashcards:</h2>")
}

func TestRender_CardsAndWarning(t *testing.T) {
	s := session.New("s")
	s.Replace([]models.Flashcard{
		{Question: "What is <b>bold</b>?", Answer: "Markup"},
		{Question: "Second", Answer: "Hidden answer"},
	})
	require.NoError(t, s.Toggle(0))

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Page{
		View:     s.View(),
		Warning:  "Could not generate flashcards in a structured format.",
		NumCards: 5,
	}))

	html := buf.String()
	assert.Contains(t, html, "Q1: What is &lt;b&gt;bold&lt;/b&gt;?")
	assert.Contains(t, html, "A1: Markup")
	assert.Contains(t, html, "Hide Answer")
	assert.Contains(t, html, "Q2: Second")
	assert.Contains(t, html, "Show Answer")
	assert.NotContains(t, html, "Hidden answer")
	assert.Contains(t, html, `action="/cards/1/toggle"`)
	assert.Contains(t, html, "Could not generate flashcards in a structured format.")
}

func TestAssets(t *testing.T) {
	rec := httptest.NewRecorder()
	Assets().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/style.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "font-family")
}

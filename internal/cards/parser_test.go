package cards

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flash-gen/internal/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []models.Flashcard
	}{
		{
			name:  "plain array",
			reply: `[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"}]`,
			want: []models.Flashcard{
				{Question: "Q1", Answer: "A1"},
				{Question: "Q2", Answer: "A2"},
			},
		},
		{
			name:  "prose around array and missing answer",
			reply: "Sure!\n[{\"question\":\"Q1\",\"answer\":\"A1\"},{\"question\":\"Q2\"}]\nDone.",
			want: []models.Flashcard{
				{Question: "Q1", Answer: "A1"},
				{Question: "Q2", Answer: ""},
			},
		},
		{
			name:  "not json",
			reply: "not json at all",
			want:  []models.Flashcard{},
		},
		{
			name:  "single object",
			reply: `{"question":"Only one","answer":"Here"}`,
			want:  []models.Flashcard{{Question: "Only one", Answer: "Here"}},
		},
		{
			name:  "empty array",
			reply: "  []  ",
			want:  []models.Flashcard{},
		},
		{
			name:  "non object elements dropped",
			reply: `["stray", 42, {"question":"kept","answer":"yes"}, null, [1]]`,
			want:  []models.Flashcard{{Question: "kept", Answer: "yes"}},
		},
		{
			name:  "object missing both keys kept",
			reply: `[{"topic":"x"}]`,
			want:  []models.Flashcard{{}},
		},
		{
			name:  "extra keys ignored",
			reply: `[{"question":"Q","answer":"A","hint":"h","tags":["t"]}]`,
			want:  []models.Flashcard{{Question: "Q", Answer: "A"}},
		},
		{
			name:  "trailing comma",
			reply: `[{"question":"Q","answer":"A"},]`,
			want:  []models.Flashcard{},
		},
		{
			name:  "unescaped quote",
			reply: `[{"question":"say "hi"","answer":"A"}]`,
			want:  []models.Flashcard{},
		},
		{
			name:  "two arrays merge into one invalid span",
			reply: `[{"question":"a","answer":"b"}] and also [{"question":"c","answer":"d"}]`,
			want:  []models.Flashcard{},
		},
		{
			name:  "markdown fenced array",
			reply: "```json\n[{\"question\":\"Q\",\"answer\":\"A\"}]\n```",
			want:  []models.Flashcard{{Question: "Q", Answer: "A"}},
		},
		{
			name:  "non string values rendered as json",
			reply: `[{"question":"How many?","answer":42},{"question":true,"answer":null}]`,
			want: []models.Flashcard{
				{Question: "How many?", Answer: "42"},
				{Question: "true", Answer: ""},
			},
		},
		{
			name:  "bare scalar",
			reply: `"just a string"`,
			want:  []models.Flashcard{},
		},
		{
			name:  "empty reply",
			reply: "   ",
			want:  []models.Flashcard{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.reply)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_ProseMatchesBareArray(t *testing.T) {
	array := `[{"question":"What is Go?","answer":"A language"},{"question":"Who?","answer":"Google"}]`
	wrapped := "Here are your flashcards:\n" + array + "\nHope this helps!"

	assert.Equal(t, Parse(array), Parse(wrapped))
}

func TestParse_OrderPreserved(t *testing.T) {
	reply := `[{"question":"3","answer":"c"},{"question":"1","answer":"a"},{"question":"2","answer":"b"}]`

	got := Parse(reply)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"3", "1", "2"}, []string{got[0].Question, got[1].Question, got[2].Question})
}

func TestDecode_SyntaxError(t *testing.T) {
	cards, err := Decode("Sure! [{\"question\": }] thanks")
	require.Error(t, err)
	assert.Empty(t, cards)

	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, `[{"question": }]`, syntaxErr.Candidate)
	assert.Contains(t, err.Error(), "decode flashcard json")
}

func TestDecode_NoErrorOnEmptyArray(t *testing.T) {
	cards, err := Decode("[]")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestExtractArray(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{name: "no brackets", reply: "  {\"a\":1}  ", want: `{"a":1}`},
		{name: "widest span", reply: "x [1] y [2] z", want: "[1] y [2]"},
		{name: "closing before opening", reply: "] then [", want: "] then ["},
		{name: "nested", reply: "ok [[1],[2]] done", want: "[[1],[2]]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractArray(tt.reply))
		})
	}
}

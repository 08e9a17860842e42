package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		query    string
		want     Mode
	}{
		{"explicit answer wins", "answer", "give me a quiz on this", ModeAnswer},
		{"explicit is case insensitive", "QUIZ", "what color is the sky", ModeQuiz},
		{"invalid explicit falls through", "flashcards", "what color is the sky", ModeAnswer},
		{"quiz keyword", "", "give me a quiz on this", ModeQuiz},
		{"question keyword", "", "ask me some questions about the paper", ModeQuiz},
		{"quiz beats summary keyword", "", "quiz me on the summary chapter", ModeQuiz},
		{"overview keyword", "", "give me an overview of the deck", ModeOverview},
		{"summar prefix", "", "summarize this please", ModeSummary},
		{"summary word", "", "I want a summary", ModeSummary},
		{"analy prefix", "", "analyze the argument", ModeAnalysis},
		{"analysis word", "", "deep analysis of chapter 2", ModeAnalysis},
		{"general intent falls back to summary", "", "make flashcards from this", ModeSummary},
		{"test keyword is general intent", "", "test me on the material", ModeSummary},
		{"plain question defaults to answer", "", "what color is the sky", ModeAnswer},
		{"explain defaults to answer", "", "explain this", ModeAnswer},
		{"empty query defaults to answer", "", "", ModeAnswer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMode(tt.explicit, tt.query))
		})
	}
}

func TestMode_TopK(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		explicit int
		want     int
	}{
		{"answer default", ModeAnswer, 0, 6},
		{"quiz default", ModeQuiz, 0, 40},
		{"summary default", ModeSummary, 0, 24},
		{"overview default", ModeOverview, 0, 24},
		{"analysis default", ModeAnalysis, 0, 24},
		{"explicit override", ModeAnswer, 10, 10},
		{"explicit clamped to 100", ModeQuiz, 500, 100},
		{"unknown mode uses answer default", Mode("bogus"), 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mode.TopK(tt.explicit))
		})
	}
}

func TestMode_Temperature(t *testing.T) {
	assert.InDelta(t, 0.4, ModeQuiz.Temperature(), 0.001)
	assert.InDelta(t, 0.2, ModeAnswer.Temperature(), 0.001)
	assert.InDelta(t, 0.2, ModeSummary.Temperature(), 0.001)
	assert.InDelta(t, 0.2, ModeOverview.Temperature(), 0.001)
	assert.InDelta(t, 0.2, ModeAnalysis.Temperature(), 0.001)
}

func TestIsValidMode(t *testing.T) {
	assert.True(t, IsValidMode("answer"))
	assert.True(t, IsValidMode("Quiz"))
	assert.False(t, IsValidMode(""))
	assert.False(t, IsValidMode("flashcards"))
}

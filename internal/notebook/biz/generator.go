package biz

import (
	"context"
	"strings"

	"github.com/kart-io/logger"

	"github.com/infinita-io/notebookd/internal/model"
	"github.com/infinita-io/notebookd/pkg/errors"
	"github.com/infinita-io/notebookd/pkg/llm"
	"github.com/infinita-io/notebookd/pkg/utils/json"
)

// ApologyText is returned when retrieval finds no usable context. The
// generation provider is not called in that case.
const ApologyText = "I couldn't find any relevant information in my knowledge base to respond."

// GenerationResult is the mode-shaped output of one generation call.
type GenerationResult struct {
	// Answer is the generated text for non-quiz modes.
	Answer string
	// Quiz is the parsed quiz for quiz mode.
	Quiz *model.Quiz
	// Raw carries the unparsed model output when quiz JSON parsing fails.
	Raw string
}

// Generator drives the chat provider with mode-specific prompts.
type Generator struct {
	chatProvider llm.ChatProvider
}

// NewGenerator creates a generator.
func NewGenerator(chatProvider llm.ChatProvider) *Generator {
	return &Generator{chatProvider: chatProvider}
}

// Generate selects the prompt pair for the mode and calls the provider.
// Quiz output is parsed into a structured quiz; a malformed quiz payload
// is not fatal and is surfaced through Raw instead.
func (g *Generator) Generate(ctx context.Context, mode Mode, contextText, question string) (*GenerationResult, error) {
	system, user := SelectPrompt(mode, contextText, question)

	output, err := g.chatProvider.Generate(ctx, user, system, mode.Temperature())
	if err != nil {
		return nil, errors.ErrGeneration.WithCause(err)
	}

	if mode != ModeQuiz {
		return &GenerationResult{Answer: output}, nil
	}

	quiz, parseErr := parseQuiz(output)
	if parseErr != nil {
		logger.Warnw("quiz output is not valid JSON, returning raw text", "error", parseErr.Error())
		return &GenerationResult{Raw: output}, nil
	}

	return &GenerationResult{Quiz: quiz}, nil
}

// parseQuiz decodes the quiz JSON contract. Models often wrap JSON in a
// markdown code fence, which is stripped first.
func parseQuiz(output string) (*model.Quiz, error) {
	cleaned := stripCodeFence(output)

	var quiz model.Quiz
	if err := json.Unmarshal([]byte(cleaned), &quiz); err != nil {
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, errors.ErrGeneration.WithMessage("quiz contains no questions")
	}

	return &quiz, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

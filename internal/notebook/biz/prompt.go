package biz

import (
	"fmt"
	"strings"
)

// englishPreamble is prepended to every system prompt so responses stay in
// English unless the user asks otherwise.
const englishPreamble = "Answer in English unless the user explicitly requests another language. "

// promptPair is one system/user instruction pair.
type promptPair struct {
	system string
	user   string
}

// SelectPrompt maps a mode to its instruction pair. Only answer mode
// interpolates the question; the other modes instruct purely from the
// context so their output is independent of query phrasing.
func SelectPrompt(mode Mode, context, question string) (system, user string) {
	var p promptPair
	switch mode {
	case ModeSummary:
		p = promptPair{
			system: "Write a clear, unbiased summary using only the provided context.",
			user:   fmt.Sprintf("Context:\n%s\n\nTask: Produce a concise summary (5-10 bullet points).", context),
		}
	case ModeOverview:
		p = promptPair{
			system: "Provide a high-level overview using only the provided context.",
			user:   fmt.Sprintf("Context:\n%s\n\nTask: Provide a high-level overview (short paragraphs + bullets).", context),
		}
	case ModeAnalysis:
		p = promptPair{
			system: "Analyze the content using only the provided context.",
			user:   fmt.Sprintf("Context:\n%s\n\nTask: Provide a structured analysis (claims, evidence, implications, caveats).", context),
		}
	case ModeQuiz:
		p = promptPair{
			system: "Create a quiz strictly from the provided context. Do not invent facts. Return only valid JSON.",
			user:   fmt.Sprintf("Context:\n%s\n\nTask: Generate 5 diverse multiple-choice questions. Each item must include: question (string), options (array of 4 strings), answerIndex (0-3), and explanation (string). Return JSON in the shape {\"questions\": Array<...>}.", context),
		}
	default:
		p = promptPair{
			system: "Ground all factual claims in the provided context. You may adapt, translate, and teach using the user's requested language or phonetics; if the context lacks facts, say you don't know.",
			user:   fmt.Sprintf("Context:\n%s\n\nQuestion: %s", context, question),
		}
	}

	return englishPreamble + p.system, p.user
}

// BuildContext concatenates chunk texts with 1-based bracketed citation
// markers, separated by blank lines. Citation markers in the generated
// output map back to this same order.
func BuildContext(texts []string) string {
	parts := make([]string, len(texts))
	for i, text := range texts {
		parts[i] = fmt.Sprintf("[#%d] %s", i+1, text)
	}
	return strings.Join(parts, "\n\n")
}

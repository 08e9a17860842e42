package biz

import (
	"regexp"
	"strings"
)

// Mode is one of the five response modes.
type Mode string

const (
	ModeAnswer   Mode = "answer"
	ModeSummary  Mode = "summary"
	ModeOverview Mode = "overview"
	ModeAnalysis Mode = "analysis"
	ModeQuiz     Mode = "quiz"
)

// modeProfile holds the per-mode knobs: retrieval breadth and generation
// temperature. Adding a mode means adding one row here plus its prompt
// pair in prompt.go.
type modeProfile struct {
	topK        int
	temperature float64
}

var modeProfiles = map[Mode]modeProfile{
	ModeAnswer:   {topK: 6, temperature: 0.2},
	ModeSummary:  {topK: 24, temperature: 0.2},
	ModeOverview: {topK: 24, temperature: 0.2},
	ModeAnalysis: {topK: 24, temperature: 0.2},
	ModeQuiz:     {topK: 40, temperature: 0.4},
}

// generalIntentPattern is the broad intent net: a query that mentions any
// of these words is asking for a digest of the corpus rather than a
// direct answer.
var generalIntentPattern = regexp.MustCompile(`(?i)summary|summarize|overview|analyze|analysis|quiz|questions|flashcards|test`)

// IsValidMode reports whether s names one of the five canonical modes.
func IsValidMode(s string) bool {
	switch Mode(strings.ToLower(s)) {
	case ModeAnswer, ModeSummary, ModeOverview, ModeAnalysis, ModeQuiz:
		return true
	}
	return false
}

// ResolveMode picks the response mode. An explicit canonical mode wins;
// otherwise the query phrasing is mined for intent, with quiz given the
// highest precedence because its keywords are the most intentional, and
// answer as the fallback for open-ended questions.
func ResolveMode(explicitMode, queryText string) Mode {
	if IsValidMode(explicitMode) {
		return Mode(strings.ToLower(explicitMode))
	}

	q := strings.ToLower(queryText)
	switch {
	case strings.Contains(q, "quiz") || strings.Contains(q, "question"):
		return ModeQuiz
	case strings.Contains(q, "overview"):
		return ModeOverview
	case strings.Contains(q, "summar"):
		return ModeSummary
	case strings.Contains(q, "analy"):
		return ModeAnalysis
	case generalIntentPattern.MatchString(queryText):
		return ModeSummary
	}

	return ModeAnswer
}

// TopK returns the retrieval breadth for the mode. An explicit positive
// value overrides the default and is clamped to [1, 100].
func (m Mode) TopK(explicit int) int {
	if explicit > 0 {
		if explicit > 100 {
			return 100
		}
		return explicit
	}

	if p, ok := modeProfiles[m]; ok {
		return p.topK
	}
	return modeProfiles[ModeAnswer].topK
}

// Temperature returns the generation temperature for the mode.
func (m Mode) Temperature() float64 {
	if p, ok := modeProfiles[m]; ok {
		return p.temperature
	}
	return modeProfiles[ModeAnswer].temperature
}

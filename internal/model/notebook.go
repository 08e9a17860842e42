// Package model defines the shared data types of the notebook service.
package model

// SourceKind identifies where a piece of ingested text came from.
type SourceKind string

const (
	KindPDF     SourceKind = "pdf"
	KindYouTube SourceKind = "youtube"
	KindText    SourceKind = "text"
)

// RawSourceItem is one normalized ingestion input: a human-readable origin
// identifier, its kind, and the extracted text. Immutable once created and
// consumed exactly once by the chunking stage.
type RawSourceItem struct {
	Source string     `json:"source"`
	Kind   SourceKind `json:"kind"`
	Text   string     `json:"text"`
}

// IngestResult reports the outcome of one ingestion request.
type IngestResult struct {
	OK       bool `json:"ok"`
	Upserted int  `json:"upserted"`

	// Warnings lists per-item inputs that were skipped rather than failing
	// the request, such as uploads that are not PDFs.
	Warnings []string `json:"warnings,omitempty"`
}

// SourceRef is one citation entry in a query response. ChunkIndex is the
// chunk's position within its parent source item.
type SourceRef struct {
	Source         string     `json:"source"`
	Kind           SourceKind `json:"kind"`
	RelevanceScore float32    `json:"relevance_score"`
	ChunkIndex     int        `json:"chunk_index"`
}

// QuizQuestion is a single multiple-choice question produced in quiz mode.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
	Explanation string   `json:"explanation"`
}

// Quiz is the structured payload produced in quiz mode.
type Quiz struct {
	Questions []QuizQuestion `json:"questions"`
}

// QueryResult is the response of one query request. Exactly one of Answer,
// Quiz, or Raw is populated: Answer for the text modes, Quiz for a parsed
// quiz, Raw for quiz output that failed strict JSON parsing.
type QueryResult struct {
	Mode         string      `json:"mode"`
	Answer       string      `json:"answer,omitempty"`
	Quiz         *Quiz       `json:"quiz,omitempty"`
	Raw          string      `json:"raw,omitempty"`
	Sources      []SourceRef `json:"sources"`
	Query        string      `json:"query"`
	ChunksUsed   int         `json:"chunks_used"`
	TotalMatches int         `json:"total_matches"`
}

// StatsResult summarizes the vector index for the listing endpoint.
type StatsResult struct {
	Collection  string `json:"collection"`
	VectorCount int64  `json:"vector_count"`
}

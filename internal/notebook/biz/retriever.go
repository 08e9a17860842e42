package biz

import (
	"context"
	"sort"
	"strings"

	"github.com/kart-io/logger"

	"github.com/infinita-io/notebookd/internal/notebook/store"
	"github.com/infinita-io/notebookd/pkg/errors"
	"github.com/infinita-io/notebookd/pkg/llm"
)

// RetrievalResult is the outcome of one similarity retrieval.
type RetrievalResult struct {
	// Chunks are the surviving matches, sorted by descending score.
	Chunks []*store.SearchResult
	// TotalMatches is the raw match count before filtering.
	TotalMatches int
}

// Retriever embeds queries and fetches their nearest chunks.
type Retriever struct {
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
}

// NewRetriever creates a retriever.
func NewRetriever(vectorStore store.VectorStore, embedProvider llm.EmbeddingProvider) *Retriever {
	return &Retriever{
		store:         vectorStore,
		embedProvider: embedProvider,
	}
}

// Retrieve embeds the query, searches the vector store, drops matches
// without textual metadata, and re-sorts the rest by descending score.
// The store's own ordering is not trusted to be stable after filtering.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) (*RetrievalResult, error) {
	embedding, err := r.embedProvider.EmbedSingle(ctx, query)
	if err != nil {
		return nil, errors.ErrEmbedding.WithCause(err)
	}

	matches, err := r.store.Search(ctx, embedding, topK)
	if err != nil {
		return nil, errors.ErrStore.WithCause(err)
	}

	chunks := make([]*store.SearchResult, 0, len(matches))
	for _, m := range matches {
		if strings.TrimSpace(m.Text) == "" {
			continue
		}
		chunks = append(chunks, m)
	}

	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})

	logger.Debugw("retrieval completed",
		"query_length", len(query),
		"top_k", topK,
		"total_matches", len(matches),
		"usable_chunks", len(chunks),
	)

	return &RetrievalResult{
		Chunks:       chunks,
		TotalMatches: len(matches),
	}, nil
}

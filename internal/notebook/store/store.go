// Package store defines the vector store abstraction used by the notebook
// pipeline and its Milvus implementation.
package store

import (
	"context"
)

// Chunk is one embedded slice of a source document.
type Chunk struct {
	// ID is the deterministic chunk identifier.
	ID string
	// Source names where the chunk came from (file name, video ID, or
	// text snippet prefix).
	Source string
	// Kind is the source kind (pdf, youtube, text).
	Kind string
	// ChunkIndex is the position of the chunk within its source.
	ChunkIndex int
	// Text is the chunk content.
	Text string
	// Embedding is the embedding vector.
	Embedding []float32
}

// SearchResult is one similarity search hit.
type SearchResult struct {
	ID         string
	Source     string
	Kind       string
	ChunkIndex int
	Text       string
	Score      float32
}

// CollectionConfig describes the backing collection.
type CollectionConfig struct {
	// Name is the collection name.
	Name string
	// Description is the collection description.
	Description string
	// Dimension is the embedding vector dimension.
	Dimension int
}

// VectorStore is the persistence interface of the notebook pipeline.
type VectorStore interface {
	// EnsureCollection creates the collection if it does not exist.
	EnsureCollection(ctx context.Context) error

	// Upsert writes chunks, overwriting rows with the same ID, and
	// returns the number of rows written.
	Upsert(ctx context.Context, chunks []*Chunk) (int, error)

	// Search performs a vector similarity search.
	Search(ctx context.Context, embedding []float32, topK int) ([]*SearchResult, error)

	// DeleteAll removes every stored chunk.
	DeleteAll(ctx context.Context) error

	// Stats returns the number of stored chunks.
	Stats(ctx context.Context) (int64, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

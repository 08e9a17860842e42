// Package textutil provides text processing primitives for the notebook
// ingestion pipeline: word-window chunking, deterministic chunk identity,
// and upsert batch planning.
package textutil

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math"
	"strings"

	"github.com/infinita-io/notebookd/pkg/errors"
)

// Default chunking and batching parameters.
const (
	DefaultChunkSize    = 1200
	DefaultChunkOverlap = 200
	DefaultBatchSize    = 200
)

// ChunkWords splits text into overlapping word windows of up to size words.
// The window start advances by size-overlap words each step, so consecutive
// chunks share overlap words across the boundary. Windows that are empty
// after trimming are dropped.
//
// Requires size > overlap >= 0; anything else fails fast instead of risking
// an unbounded loop.
func ChunkWords(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, errors.ErrInvalidParam.WithMessagef("chunk size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, errors.ErrInvalidParam.WithMessagef("chunk overlap must be non-negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, errors.ErrInvalidParam.WithMessagef("chunk overlap %d must be smaller than chunk size %d", overlap, size)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.TrimSpace(strings.Join(words[start:end], " "))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

// ChunkID derives the deterministic vector ID for a chunk from its source
// kind, source identifier, and position within the source's chunk sequence.
// Identical inputs always produce the same ID, which makes re-ingestion an
// overwrite rather than a duplicate at the store layer.
func ChunkID(kind, source string, index int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s:%s:%d", kind, source, index)))
	return hex.EncodeToString(sum[:])
}

// PlanBatches partitions items into ordered batches of at most batchSize
// elements. Concatenating the batches in order reproduces the input exactly.
// A batchSize below 1 is treated as 1.
func PlanBatches[T any](items []T, batchSize int) [][]T {
	if batchSize < 1 {
		batchSize = 1
	}
	if len(items) == 0 {
		return nil
	}

	batches := make([][]T, 0, (len(items)+batchSize-1)/batchSize)
	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Returns a value in [-1, 1], or 0 for mismatched or empty inputs.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

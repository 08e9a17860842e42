package textutil_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinita-io/notebookd/internal/pkg/textutil"
	"github.com/infinita-io/notebookd/pkg/errors"
)

// wordText builds a text of n distinct words.
func wordText(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestChunkWords(t *testing.T) {
	tests := []struct {
		name    string
		words   int
		size    int
		overlap int
		chunks  int
	}{
		{"fits in one window", 10, 20, 5, 1},
		{"exactly one window", 20, 20, 0, 1},
		{"overlapping windows", 12, 5, 2, 4},
		{"no overlap", 10, 5, 0, 2},
		{"tail shorter than window", 10, 5, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := textutil.ChunkWords(wordText(tt.words), tt.size, tt.overlap)
			require.NoError(t, err)
			assert.Len(t, chunks, tt.chunks)
		})
	}
}

func TestChunkWordsTailWindow(t *testing.T) {
	// The window start keeps advancing while it is inside the word
	// sequence, so a tail already covered by the previous chunk's overlap
	// still becomes its own chunk.
	chunks, err := textutil.ChunkWords(wordText(10), 5, 2)
	require.NoError(t, err)
	require.Len(t, chunks, 4)
	assert.Equal(t, "w9", chunks[3])
	assert.Equal(t, "w6 w7 w8 w9", chunks[2])
}

func TestChunkWordsOverlapSharing(t *testing.T) {
	chunks, err := textutil.ChunkWords(wordText(12), 5, 2)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(chunks), 2)

	// Consecutive chunks share exactly overlap words across the boundary.
	first := strings.Fields(chunks[0])
	second := strings.Fields(chunks[1])
	assert.Equal(t, first[len(first)-2:], second[:2])
}

func TestChunkWordsEmptyInput(t *testing.T) {
	chunks, err := textutil.ChunkWords("", 5, 2)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = textutil.ChunkWords("   \n\t  ", 5, 2)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkWordsInvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative size", -1, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
		{"overlap exceeds size", 10, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := textutil.ChunkWords("some text here", tt.size, tt.overlap)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrInvalidParam))
		})
	}
}

func TestChunkWordsDeterministic(t *testing.T) {
	text := wordText(50)
	a, err := textutil.ChunkWords(text, 7, 3)
	require.NoError(t, err)
	b, err := textutil.ChunkWords(text, 7, 3)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestChunkID(t *testing.T) {
	// Deterministic for identical inputs.
	assert.Equal(t,
		textutil.ChunkID("pdf", "report.pdf", 0),
		textutil.ChunkID("pdf", "report.pdf", 0),
	)

	// Distinct for every varying component.
	base := textutil.ChunkID("pdf", "report.pdf", 0)
	assert.NotEqual(t, base, textutil.ChunkID("pdf", "report.pdf", 1))
	assert.NotEqual(t, base, textutil.ChunkID("text", "report.pdf", 0))
	assert.NotEqual(t, base, textutil.ChunkID("pdf", "other.pdf", 0))

	// 160-bit hash rendered as 40 hex characters.
	assert.Len(t, base, 40)
}

func TestPlanBatches(t *testing.T) {
	items := make([]int, 450)
	for i := range items {
		items[i] = i
	}

	batches := textutil.PlanBatches(items, 200)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 200)
	assert.Len(t, batches[1], 200)
	assert.Len(t, batches[2], 50)

	// Concatenation reproduces the input exactly, in order.
	var flat []int
	for _, b := range batches {
		flat = append(flat, b...)
	}
	assert.Equal(t, items, flat)
}

func TestPlanBatchesEdgeCases(t *testing.T) {
	assert.Nil(t, textutil.PlanBatches([]string{}, 10))

	single := textutil.PlanBatches([]string{"a"}, 10)
	require.Len(t, single, 1)
	assert.Equal(t, []string{"a"}, single[0])

	// batchSize below 1 degrades to singleton batches instead of looping.
	tiny := textutil.PlanBatches([]int{1, 2, 3}, 0)
	assert.Len(t, tiny, 3)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a        []float32
		b        []float32
		expected float64
	}{
		{"identical vectors", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0},
		{"orthogonal vectors", []float32{1, 0, 0}, []float32{0, 1, 0}, 0.0},
		{"opposite vectors", []float32{1, 0, 0}, []float32{-1, 0, 0}, -1.0},
		{"empty vectors", []float32{}, []float32{}, 0.0},
		{"length mismatch", []float32{1, 2}, []float32{1}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, textutil.CosineSimilarity(tt.a, tt.b), 0.0001)
		})
	}
}

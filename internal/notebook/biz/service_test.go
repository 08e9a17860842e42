package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infinita-io/notebookd/internal/model"
	"github.com/infinita-io/notebookd/internal/notebook/store"
	"github.com/infinita-io/notebookd/pkg/errors"
)

func newTestService(st *fakeStore, chat *fakeChat) *NotebookService {
	embedder := &fakeEmbedder{}
	ingestor := NewIngestor(st, embedder, nil, &IngestorConfig{
		ChunkSize:      5,
		ChunkOverlap:   1,
		BatchSize:      200,
		ExtractWorkers: 1,
	})
	return NewNotebookService(st, embedder, chat, ingestor, nil, &ServiceConfig{
		Collection: "test_chunks",
	})
}

func TestService_Query_MissingQuery(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeChat{})

	_, err := svc.Query(context.Background(), "   ", "", 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrMissingParam))
}

func TestService_Query_ApologyWithoutGeneration(t *testing.T) {
	chat := &fakeChat{output: "should never be used"}
	svc := newTestService(newFakeStore(), chat)

	result, err := svc.Query(context.Background(), "what is in my notes", "", 0)
	require.NoError(t, err)

	assert.Equal(t, ApologyText, result.Answer)
	assert.Equal(t, "answer", result.Mode)
	assert.NotNil(t, result.Sources)
	assert.Empty(t, result.Sources)
	assert.Zero(t, result.ChunksUsed)
	assert.Equal(t, 0, chat.calls, "generation provider must not be called without context")
}

func TestService_Query_AnswerMode(t *testing.T) {
	st := newFakeStore()
	st.searchResults = []*store.SearchResult{
		searchHit("notes.pdf", "pdf", "chunk one", 0, 0.9),
		searchHit("vid01", "youtube", "chunk two", 3, 0.7),
	}
	chat := &fakeChat{output: "generated answer"}
	svc := newTestService(st, chat)

	result, err := svc.Query(context.Background(), "what do my notes say", "", 0)
	require.NoError(t, err)

	assert.Equal(t, "answer", result.Mode)
	assert.Equal(t, "generated answer", result.Answer)
	assert.Nil(t, result.Quiz)
	assert.Equal(t, "what do my notes say", result.Query)
	assert.Equal(t, 2, result.ChunksUsed)
	assert.Equal(t, 2, result.TotalMatches)

	require.Len(t, result.Sources, 2)
	assert.Equal(t, "notes.pdf", result.Sources[0].Source)
	assert.Equal(t, model.KindPDF, result.Sources[0].Kind)
	assert.InDelta(t, 0.9, result.Sources[0].RelevanceScore, 0.001)
	assert.Equal(t, 0, result.Sources[0].ChunkIndex)
	assert.Equal(t, "vid01", result.Sources[1].Source)
	assert.Equal(t, model.KindYouTube, result.Sources[1].Kind)
	assert.Equal(t, 3, result.Sources[1].ChunkIndex)

	// The assembled context reaches the provider with citation markers.
	assert.Contains(t, chat.lastPrompt, "[#1] chunk one")
	assert.Contains(t, chat.lastPrompt, "[#2] chunk two")
}

func TestService_Query_QuizMode(t *testing.T) {
	st := newFakeStore()
	st.searchResults = []*store.SearchResult{
		searchHit("notes.pdf", "pdf", "study material", 0, 0.8),
	}
	chat := &fakeChat{output: validQuizJSON}
	svc := newTestService(st, chat)

	result, err := svc.Query(context.Background(), "quiz me", "", 0)
	require.NoError(t, err)

	assert.Equal(t, "quiz", result.Mode)
	assert.Empty(t, result.Answer)
	require.NotNil(t, result.Quiz)
	assert.Len(t, result.Quiz.Questions, 1)
	assert.InDelta(t, 0.4, chat.lastTemp, 0.001)
}

func TestService_Query_ExplicitModeAndK(t *testing.T) {
	st := newFakeStore()
	st.searchResults = []*store.SearchResult{
		searchHit("notes.pdf", "pdf", "material", 0, 0.8),
	}
	chat := &fakeChat{output: "a summary"}
	svc := newTestService(st, chat)

	result, err := svc.Query(context.Background(), "what color is the sky", "summary", 12)
	require.NoError(t, err)
	assert.Equal(t, "summary", result.Mode)
	assert.Equal(t, "a summary", result.Answer)
}

func TestService_Ingest_ThenStats(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st, &fakeChat{})

	upserted, err := svc.Ingest(context.Background(), &IngestInput{
		RawTexts: []string{"one two three four five six seven eight nine"},
	})
	require.NoError(t, err)
	assert.Greater(t, upserted, 0)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test_chunks", stats["collection"])
	assert.Equal(t, int64(upserted), stats["vector_count"])
	assert.Equal(t, "fake-embed", stats["embed_provider"])
	assert.Equal(t, "fake-chat", stats["chat_provider"])
}

func TestService_Clear(t *testing.T) {
	st := newFakeStore()
	svc := newTestService(st, &fakeChat{})

	_, err := svc.Ingest(context.Background(), &IngestInput{
		RawTexts: []string{"one two three four five six"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, st.chunks)

	require.NoError(t, svc.Clear(context.Background()))
	assert.Empty(t, st.chunks)
	assert.Equal(t, 1, st.deleteCalls)
}

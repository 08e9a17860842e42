package biz

import (
	"context"
	"strings"

	"github.com/kart-io/logger"

	"github.com/infinita-io/notebookd/internal/model"
	"github.com/infinita-io/notebookd/internal/notebook/store"
	"github.com/infinita-io/notebookd/pkg/errors"
	"github.com/infinita-io/notebookd/pkg/llm"
)

// Service is the notebook pipeline interface.
type Service interface {
	// Ingest extracts, embeds, and stores the given sources, returning
	// the number of upserted vectors.
	Ingest(ctx context.Context, input *IngestInput) (int, error)
	// Query answers a free-text query in one of the five response modes.
	Query(ctx context.Context, query, mode string, k int) (*model.QueryResult, error)
	// Stats reports knowledge base statistics.
	Stats(ctx context.Context) (map[string]any, error)
	// Clear wipes the vector index and the query cache.
	Clear(ctx context.Context) error
}

// NotebookService composes the ingestor, retriever, and generator.
type NotebookService struct {
	ingestor      *Ingestor
	retriever     *Retriever
	generator     *Generator
	cache         *QueryCache
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
	chatProvider  llm.ChatProvider
	collection    string
}

// ServiceConfig bundles the component configurations.
type ServiceConfig struct {
	IngestorConfig   *IngestorConfig
	QueryCacheConfig *QueryCacheConfig
	Collection       string
}

// NewNotebookService creates the notebook service.
func NewNotebookService(
	vectorStore store.VectorStore,
	embedProvider llm.EmbeddingProvider,
	chatProvider llm.ChatProvider,
	ingestor *Ingestor,
	cache *QueryCache,
	config *ServiceConfig,
) *NotebookService {
	return &NotebookService{
		ingestor:      ingestor,
		retriever:     NewRetriever(vectorStore, embedProvider),
		generator:     NewGenerator(chatProvider),
		cache:         cache,
		store:         vectorStore,
		embedProvider: embedProvider,
		chatProvider:  chatProvider,
		collection:    config.Collection,
	}
}

// Ingest runs the ingestion pipeline.
func (s *NotebookService) Ingest(ctx context.Context, input *IngestInput) (int, error) {
	return s.ingestor.Ingest(ctx, input)
}

// Query resolves the mode, retrieves context, and generates the response.
// When retrieval yields no usable context a fixed apology is returned and
// the generation provider is never called.
func (s *NotebookService) Query(ctx context.Context, query, mode string, k int) (*model.QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.ErrMissingParam.WithMessage("query parameter q is required")
	}

	resolved := ResolveMode(mode, query)
	topK := resolved.TopK(k)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, resolved, query, topK); err == nil && cached != nil {
			return cached, nil
		}
	}

	retrieval, err := s.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	if len(retrieval.Chunks) == 0 {
		logger.Infow("no usable context for query", "mode", resolved, "total_matches", retrieval.TotalMatches)
		return &model.QueryResult{
			Mode:         string(resolved),
			Answer:       ApologyText,
			Sources:      []model.SourceRef{},
			Query:        query,
			ChunksUsed:   0,
			TotalMatches: retrieval.TotalMatches,
		}, nil
	}

	texts := make([]string, len(retrieval.Chunks))
	for i, chunk := range retrieval.Chunks {
		texts[i] = chunk.Text
	}

	generated, err := s.generator.Generate(ctx, resolved, BuildContext(texts), query)
	if err != nil {
		return nil, err
	}

	sources := make([]model.SourceRef, len(retrieval.Chunks))
	for i, chunk := range retrieval.Chunks {
		sources[i] = model.SourceRef{
			Source:         chunk.Source,
			Kind:           model.SourceKind(chunk.Kind),
			RelevanceScore: chunk.Score,
			ChunkIndex:     chunk.ChunkIndex,
		}
	}

	result := &model.QueryResult{
		Mode:         string(resolved),
		Answer:       generated.Answer,
		Quiz:         generated.Quiz,
		Raw:          generated.Raw,
		Sources:      sources,
		Query:        query,
		ChunksUsed:   len(retrieval.Chunks),
		TotalMatches: retrieval.TotalMatches,
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, resolved, query, topK, result)
	}

	return result, nil
}

// Stats reports vector count, collection name, provider names, and cache
// statistics.
func (s *NotebookService) Stats(ctx context.Context) (map[string]any, error) {
	count, err := s.store.Stats(ctx)
	if err != nil {
		return nil, errors.ErrStore.WithCause(err)
	}

	stats := map[string]any{
		"collection":     s.collection,
		"vector_count":   count,
		"embed_provider": s.embedProvider.Name(),
		"chat_provider":  s.chatProvider.Name(),
	}

	if s.cache != nil {
		if cacheStats, err := s.cache.Stats(ctx); err == nil {
			stats["cache"] = cacheStats
		}
	}

	return stats, nil
}

// Clear wipes all stored vectors and invalidates the query cache.
func (s *NotebookService) Clear(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return errors.ErrStore.WithCause(err)
	}

	if s.cache != nil {
		_ = s.cache.Clear(ctx)
	}

	return nil
}

var _ Service = (*NotebookService)(nil)

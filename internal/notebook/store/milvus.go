package store

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/infinita-io/notebookd/pkg/component/milvus"
)

// MilvusStore implements VectorStore on top of Milvus.
type MilvusStore struct {
	client *milvus.Client
	config *CollectionConfig
}

// NewMilvusStore creates a Milvus-backed store bound to one collection.
func NewMilvusStore(client *milvus.Client, config *CollectionConfig) *MilvusStore {
	return &MilvusStore{client: client, config: config}
}

func (s *MilvusStore) schema() *milvus.CollectionSchema {
	return &milvus.CollectionSchema{
		Name:        s.config.Name,
		Description: s.config.Description,
		Dimension:   s.config.Dimension,
		IDMaxLen:    64,
		MetaFields: []milvus.MetaField{
			{Name: "source", DataType: entity.FieldTypeVarChar, MaxLen: 512},
			{Name: "kind", DataType: entity.FieldTypeVarChar, MaxLen: 16},
			{Name: "chunk_index", DataType: entity.FieldTypeInt64},
			{Name: "text", DataType: entity.FieldTypeVarChar, MaxLen: 65535},
		},
	}
}

// EnsureCollection creates the collection if it does not exist.
func (s *MilvusStore) EnsureCollection(ctx context.Context) error {
	return s.client.EnsureCollection(ctx, s.schema())
}

// Upsert writes chunks into Milvus, overwriting rows with the same ID.
func (s *MilvusStore) Upsert(ctx context.Context, chunks []*Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	ids := make([]string, len(chunks))
	embeddings := make([][]float32, len(chunks))
	metadata := map[string][]any{
		"source":      make([]any, len(chunks)),
		"kind":        make([]any, len(chunks)),
		"chunk_index": make([]any, len(chunks)),
		"text":        make([]any, len(chunks)),
	}

	for i, chunk := range chunks {
		ids[i] = chunk.ID
		embeddings[i] = chunk.Embedding
		metadata["source"][i] = chunk.Source
		metadata["kind"][i] = chunk.Kind
		metadata["chunk_index"][i] = int64(chunk.ChunkIndex)
		metadata["text"][i] = chunk.Text
	}

	data := &milvus.UpsertData{
		IDs:        ids,
		Embeddings: embeddings,
		Metadata:   metadata,
	}

	count, err := s.client.Upsert(ctx, s.config.Name, data)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert into milvus: %w", err)
	}

	return count, nil
}

// Search performs a vector similarity search.
func (s *MilvusStore) Search(ctx context.Context, embedding []float32, topK int) ([]*SearchResult, error) {
	outputFields := []string{"source", "kind", "chunk_index", "text"}
	results, err := s.client.Search(ctx, s.config.Name, embedding, topK, outputFields)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	searchResults := make([]*SearchResult, len(results))
	for i, r := range results {
		sr := &SearchResult{
			ID:    r.ID,
			Score: r.Score,
		}
		if v, ok := r.Metadata["source"].(string); ok {
			sr.Source = v
		}
		if v, ok := r.Metadata["kind"].(string); ok {
			sr.Kind = v
		}
		if v, ok := r.Metadata["chunk_index"].(int64); ok {
			sr.ChunkIndex = int(v)
		}
		if v, ok := r.Metadata["text"].(string); ok {
			sr.Text = v
		}
		searchResults[i] = sr
	}

	return searchResults, nil
}

// DeleteAll drops the collection. The next EnsureCollection call recreates
// it empty.
func (s *MilvusStore) DeleteAll(ctx context.Context) error {
	if err := s.client.DropCollection(ctx, s.config.Name); err != nil {
		return fmt.Errorf("failed to drop collection: %w", err)
	}
	return s.client.EnsureCollection(ctx, s.schema())
}

// Stats returns the number of stored chunks.
func (s *MilvusStore) Stats(ctx context.Context) (int64, error) {
	return s.client.GetCollectionStats(ctx, s.config.Name)
}

// Close closes the Milvus connection.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

var _ VectorStore = (*MilvusStore)(nil)

package biz

import (
	"context"
	"sync"

	"github.com/kart-io/logger"
	"github.com/panjf2000/ants/v2"

	"github.com/infinita-io/notebookd/internal/model"
	"github.com/infinita-io/notebookd/internal/notebook/extract"
	"github.com/infinita-io/notebookd/internal/notebook/store"
	"github.com/infinita-io/notebookd/internal/pkg/textutil"
	"github.com/infinita-io/notebookd/pkg/errors"
	"github.com/infinita-io/notebookd/pkg/llm"
)

// PDFInput is one uploaded PDF staged for extraction.
type PDFInput struct {
	// Name is the uploaded file name, used as the source label.
	Name string
	// Data is the raw PDF bytes.
	Data []byte
}

// IngestInput collects the raw sources of one ingestion request.
type IngestInput struct {
	PDFs        []PDFInput
	YouTubeURLs []string
	RawTexts    []string
}

// Empty reports whether the input carries no sources at all.
func (in *IngestInput) Empty() bool {
	return len(in.PDFs) == 0 && len(in.YouTubeURLs) == 0 && len(in.RawTexts) == 0
}

// IngestorConfig holds the chunking and batching parameters.
type IngestorConfig struct {
	// ChunkSize is the chunk size in words.
	ChunkSize int
	// ChunkOverlap is the overlap between consecutive chunks in words.
	ChunkOverlap int
	// BatchSize is the number of chunks upserted per store call.
	BatchSize int
	// ExtractWorkers bounds concurrent extraction within one request.
	ExtractWorkers int
}

// Ingestor turns raw sources into embedded chunks and writes them to the
// vector store.
type Ingestor struct {
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
	youtube       *extract.YouTubeExtractor
	config        *IngestorConfig
}

// NewIngestor creates an ingestor.
func NewIngestor(vectorStore store.VectorStore, embedProvider llm.EmbeddingProvider, youtube *extract.YouTubeExtractor, config *IngestorConfig) *Ingestor {
	return &Ingestor{
		store:         vectorStore,
		embedProvider: embedProvider,
		youtube:       youtube,
		config:        config,
	}
}

// Ingest extracts, chunks, embeds, and upserts every source in the input.
// It returns the number of upserted vectors. A failing extraction aborts
// the whole request; sources that yield no text only reduce the count.
func (i *Ingestor) Ingest(ctx context.Context, input *IngestInput) (int, error) {
	if input.Empty() {
		return 0, errors.ErrNoSources
	}

	items, err := i.extractAll(ctx, input)
	if err != nil {
		return 0, err
	}

	chunks, err := i.embedItems(ctx, items)
	if err != nil {
		return 0, err
	}

	// All sources extracted to empty text. Valid input, nothing to store.
	if len(chunks) == 0 {
		logger.Infow("ingestion produced no chunks", "items", len(items))
		return 0, nil
	}

	if err := i.store.EnsureCollection(ctx); err != nil {
		return 0, errors.ErrStore.WithCause(err)
	}

	upserted := 0
	for _, batch := range textutil.PlanBatches(chunks, i.config.BatchSize) {
		count, err := i.store.Upsert(ctx, batch)
		if err != nil {
			return 0, errors.ErrStore.WithCause(err)
		}
		upserted += count
	}

	logger.Infow("ingestion completed", "items", len(items), "chunks", len(chunks), "upserted", upserted)
	return upserted, nil
}

// extractAll runs the per-source extractors concurrently through a worker
// pool. Results keep the input order so chunk ids stay deterministic.
func (i *Ingestor) extractAll(ctx context.Context, input *IngestInput) ([]model.RawSourceItem, error) {
	type task func() (model.RawSourceItem, error)

	tasks := make([]task, 0, len(input.PDFs)+len(input.YouTubeURLs)+len(input.RawTexts))

	for _, p := range input.PDFs {
		p := p
		tasks = append(tasks, func() (model.RawSourceItem, error) {
			text, err := extract.PDF(p.Data)
			if err != nil {
				return model.RawSourceItem{}, errors.ErrExtraction.WithCause(err)
			}
			return model.RawSourceItem{Source: p.Name, Kind: model.KindPDF, Text: text}, nil
		})
	}

	for _, url := range input.YouTubeURLs {
		url := url
		tasks = append(tasks, func() (model.RawSourceItem, error) {
			videoID, transcript, err := i.youtube.Extract(ctx, url)
			if err != nil {
				return model.RawSourceItem{}, errors.ErrExtraction.WithCause(err)
			}
			logger.Debugw("youtube transcript extracted", "url", url, "video_id", videoID)
			return model.RawSourceItem{Source: url, Kind: model.KindYouTube, Text: transcript}, nil
		})
	}

	for _, text := range input.RawTexts {
		text := text
		tasks = append(tasks, func() (model.RawSourceItem, error) {
			return model.RawSourceItem{Source: rawSourceLabel, Kind: model.KindText, Text: text}, nil
		})
	}

	workers := i.config.ExtractWorkers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.ErrInternal.WithCause(err)
	}
	defer pool.Release()

	items := make([]model.RawSourceItem, len(tasks))
	taskErrs := make([]error, len(tasks))

	var wg sync.WaitGroup
	for idx, t := range tasks {
		idx, t := idx, t
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			items[idx], taskErrs[idx] = t()
		}); err != nil {
			wg.Done()
			taskErrs[idx] = errors.ErrInternal.WithCause(err)
		}
	}
	wg.Wait()

	for _, err := range taskErrs {
		if err != nil {
			return nil, err
		}
	}

	return items, nil
}

// embedItems chunks each item and embeds its chunks with one provider call
// per item, bounding provider calls to the item count.
func (i *Ingestor) embedItems(ctx context.Context, items []model.RawSourceItem) ([]*store.Chunk, error) {
	var all []*store.Chunk

	for _, item := range items {
		texts, err := textutil.ChunkWords(item.Text, i.config.ChunkSize, i.config.ChunkOverlap)
		if err != nil {
			return nil, err
		}
		if len(texts) == 0 {
			continue
		}

		embeddings, err := i.embedProvider.Embed(ctx, texts)
		if err != nil {
			return nil, errors.ErrEmbedding.WithCause(err)
		}
		if len(embeddings) != len(texts) {
			return nil, errors.ErrEmbedding.WithMessage("embedding count does not match chunk count")
		}

		for idx, text := range texts {
			all = append(all, &store.Chunk{
				ID:         textutil.ChunkID(string(item.Kind), item.Source, idx),
				Source:     item.Source,
				Kind:       string(item.Kind),
				ChunkIndex: idx,
				Text:       text,
				Embedding:  embeddings[idx],
			})
		}
	}

	return all, nil
}

// rawSourceLabel is the source label of every pasted text. All raw texts
// share it, so chunks at the same local index overwrite each other
// (last-write-wins at the store layer).
const rawSourceLabel = "raw"

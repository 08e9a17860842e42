package biz

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/infinita-io/notebookd/internal/notebook/store"
)

// fakeStore is an in-memory VectorStore keyed by chunk ID.
type fakeStore struct {
	chunks        map[string]*store.Chunk
	order         []string
	searchResults []*store.SearchResult
	searchErr     error
	upsertErr     error
	upsertCalls   int
	batchSizes    []int
	deleteCalls   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{chunks: map[string]*store.Chunk{}}
}

func (f *fakeStore) EnsureCollection(context.Context) error { return nil }

func (f *fakeStore) Upsert(_ context.Context, chunks []*store.Chunk) (int, error) {
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	f.upsertCalls++
	f.batchSizes = append(f.batchSizes, len(chunks))
	for _, c := range chunks {
		if _, ok := f.chunks[c.ID]; !ok {
			f.order = append(f.order, c.ID)
		}
		f.chunks[c.ID] = c
	}
	return len(chunks), nil
}

func (f *fakeStore) Search(context.Context, []float32, int) ([]*store.SearchResult, error) {
	return f.searchResults, f.searchErr
}

func (f *fakeStore) DeleteAll(context.Context) error {
	f.deleteCalls++
	f.chunks = map[string]*store.Chunk{}
	f.order = nil
	return nil
}

func (f *fakeStore) Stats(context.Context) (int64, error) {
	return int64(len(f.chunks)), nil
}

func (f *fakeStore) Close(context.Context) error { return nil }

// fakeEmbedder returns a fixed-size vector per text and counts calls.
type fakeEmbedder struct {
	calls int
	err   error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 1}
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (f *fakeEmbedder) Name() string { return "fake-embed" }

// fakeChat records the last generation call and returns a canned output.
type fakeChat struct {
	output      string
	err         error
	calls       int
	lastSystem  string
	lastPrompt  string
	lastTemp    float64
	outputQueue []string
}

func (f *fakeChat) Generate(_ context.Context, prompt, systemPrompt string, temperature float64) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastSystem = systemPrompt
	f.lastTemp = temperature
	if f.err != nil {
		return "", f.err
	}
	if len(f.outputQueue) > 0 {
		out := f.outputQueue[0]
		f.outputQueue = f.outputQueue[1:]
		return out, nil
	}
	return f.output, nil
}

func (f *fakeChat) Name() string { return "fake-chat" }

// stubTranscriber returns a canned transcript for any audio file.
type stubTranscriber struct {
	transcript string
	err        error
}

func (s *stubTranscriber) Transcribe(context.Context, string) (string, error) {
	return s.transcript, s.err
}

func (s *stubTranscriber) Name() string { return "stub" }

// writeStubYTDLP installs a shell script that mimics yt-dlp: --print mode
// emits the video ID, download mode creates the mp3 the extractor expects.
func writeStubYTDLP(t *testing.T, dir, videoID string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub yt-dlp script requires a POSIX shell")
	}

	script := `#!/bin/sh
if [ "$1" = "--print" ]; then
  echo "` + videoID + `"
  exit 0
fi
while [ $# -gt 1 ]; do
  if [ "$1" = "-o" ]; then
    out=$(printf '%s' "$2" | sed 's/\.%(ext)s$/.mp3/')
    printf 'audio' > "$out"
    exit 0
  fi
  shift
done
exit 1
`
	path := filepath.Join(dir, "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func searchHit(source, kind, text string, index int, score float32) *store.SearchResult {
	return &store.SearchResult{
		ID:         fmt.Sprintf("%s-%d", source, index),
		Source:     source,
		Kind:       kind,
		ChunkIndex: index,
		Text:       text,
		Score:      score,
	}
}

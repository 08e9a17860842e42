package notebook

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptions_Defaults(t *testing.T) {
	o := NewOptions()
	assert.Equal(t, 1200, o.ChunkSize)
	assert.Equal(t, 200, o.ChunkOverlap)
	assert.Equal(t, 200, o.BatchSize)
	assert.Equal(t, "notebook_chunks", o.Collection)
	assert.Equal(t, 1536, o.EmbeddingDim)
	assert.Equal(t, int64(1<<30), o.MaxUploadSize)
	assert.Equal(t, "yt-dlp", o.YTDLPPath)
	assert.Empty(t, o.Validate())
}

func TestOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr string
	}{
		{
			name:    "zero chunk size",
			mutate:  func(o *Options) { o.ChunkSize = 0 },
			wantErr: "chunk-size must be positive",
		},
		{
			name:    "negative overlap",
			mutate:  func(o *Options) { o.ChunkOverlap = -1 },
			wantErr: "chunk-overlap must not be negative",
		},
		{
			name:    "overlap not below chunk size",
			mutate:  func(o *Options) { o.ChunkOverlap = 1200 },
			wantErr: "chunk-overlap must be smaller than chunk-size",
		},
		{
			name:    "zero batch size",
			mutate:  func(o *Options) { o.BatchSize = 0 },
			wantErr: "batch-size must be positive",
		},
		{
			name:    "empty collection",
			mutate:  func(o *Options) { o.Collection = "" },
			wantErr: "collection is required",
		},
		{
			name:    "zero embedding dim",
			mutate:  func(o *Options) { o.EmbeddingDim = 0 },
			wantErr: "embedding-dim must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOptions()
			tt.mutate(o)

			errs := o.Validate()
			require.NotEmpty(t, errs)
			assert.Contains(t, errs[0].Error(), tt.wantErr)
		})
	}
}

func TestOptions_AddFlags(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs)

	require.NoError(t, fs.Parse([]string{
		"--notebook.chunk-size=800",
		"--notebook.collection=my_notes",
	}))
	assert.Equal(t, 800, o.ChunkSize)
	assert.Equal(t, "my_notes", o.Collection)
}

func TestOptions_AddFlags_Prefixed(t *testing.T) {
	o := NewOptions()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.AddFlags(fs, "server")

	require.NoError(t, fs.Parse([]string{"--server.notebook.batch-size=50"}))
	assert.Equal(t, 50, o.BatchSize)
}

func TestOptions_Complete(t *testing.T) {
	o := NewOptions()
	o.TempDir = ""
	o.ExtractWorkers = 0

	require.NoError(t, o.Complete())
	assert.NotEmpty(t, o.TempDir)
	assert.Equal(t, 4, o.ExtractWorkers)
}

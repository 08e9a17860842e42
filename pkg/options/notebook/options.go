// Package notebook provides configuration options for the notebook
// ingestion and query pipeline.
package notebook

import (
	"fmt"
	"os"

	"github.com/infinita-io/notebookd/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options contains pipeline-specific configuration.
type Options struct {
	// ChunkSize is the chunk size in words.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the overlap between consecutive chunks in words.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// BatchSize is the number of chunks upserted per vector store call.
	BatchSize int `json:"batch-size" mapstructure:"batch-size"`

	// Collection is the name of the Milvus collection.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the dimension of embedding vectors.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// TempDir is the scratch directory for downloaded audio files.
	// Empty means the system temp directory.
	TempDir string `json:"temp-dir" mapstructure:"temp-dir"`

	// MaxUploadSize is the multipart request body limit in bytes.
	MaxUploadSize int64 `json:"max-upload-size" mapstructure:"max-upload-size"`

	// YTDLPPath is the yt-dlp executable used for YouTube audio download.
	YTDLPPath string `json:"ytdlp-path" mapstructure:"ytdlp-path"`

	// ExtractWorkers is the number of sources extracted concurrently
	// within one ingestion request.
	ExtractWorkers int `json:"extract-workers" mapstructure:"extract-workers"`
}

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		ChunkSize:      1200,
		ChunkOverlap:   200,
		BatchSize:      200,
		Collection:     "notebook_chunks",
		EmbeddingDim:   1536, // text-embedding-3-small dimension
		MaxUploadSize:  1 << 30,
		YTDLPPath:      "yt-dlp",
		ExtractWorkers: 4,
	}
}

// AddFlags adds flags for notebook options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.ChunkSize, options.Join(prefixes...)+"notebook.chunk-size", o.ChunkSize, "Chunk size in words.")
	fs.IntVar(&o.ChunkOverlap, options.Join(prefixes...)+"notebook.chunk-overlap", o.ChunkOverlap, "Overlap between consecutive chunks in words.")
	fs.IntVar(&o.BatchSize, options.Join(prefixes...)+"notebook.batch-size", o.BatchSize, "Chunks upserted per vector store call.")
	fs.StringVar(&o.Collection, options.Join(prefixes...)+"notebook.collection", o.Collection, "Milvus collection name.")
	fs.IntVar(&o.EmbeddingDim, options.Join(prefixes...)+"notebook.embedding-dim", o.EmbeddingDim, "Embedding vector dimension.")
	fs.StringVar(&o.TempDir, options.Join(prefixes...)+"notebook.temp-dir", o.TempDir, "Scratch directory for downloaded audio files.")
	fs.Int64Var(&o.MaxUploadSize, options.Join(prefixes...)+"notebook.max-upload-size", o.MaxUploadSize, "Multipart request body limit in bytes.")
	fs.StringVar(&o.YTDLPPath, options.Join(prefixes...)+"notebook.ytdlp-path", o.YTDLPPath, "Path to the yt-dlp executable.")
	fs.IntVar(&o.ExtractWorkers, options.Join(prefixes...)+"notebook.extract-workers", o.ExtractWorkers, "Sources extracted concurrently per ingestion request.")
}

// Validate validates the notebook options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("chunk-size must be positive"))
	}
	if o.ChunkOverlap < 0 {
		errs = append(errs, fmt.Errorf("chunk-overlap must not be negative"))
	}
	if o.ChunkOverlap >= o.ChunkSize {
		errs = append(errs, fmt.Errorf("chunk-overlap must be smaller than chunk-size"))
	}
	if o.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch-size must be positive"))
	}
	if o.Collection == "" {
		errs = append(errs, fmt.Errorf("collection is required"))
	}
	if o.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("embedding-dim must be positive"))
	}
	if o.MaxUploadSize <= 0 {
		errs = append(errs, fmt.Errorf("max-upload-size must be positive"))
	}
	return errs
}

// Complete completes the notebook options with defaults.
func (o *Options) Complete() error {
	if o.TempDir == "" {
		o.TempDir = os.TempDir()
	}
	if o.ExtractWorkers <= 0 {
		o.ExtractWorkers = 4
	}
	return nil
}

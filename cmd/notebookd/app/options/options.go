// Package options contains flags and options for initializing the notebook server.
package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	notebooksvc "github.com/infinita-io/notebookd/internal/notebook"
	cacheopts "github.com/infinita-io/notebookd/pkg/options/cache"
	llmopts "github.com/infinita-io/notebookd/pkg/options/llm"
	logopts "github.com/infinita-io/notebookd/pkg/options/logger"
	milvusopts "github.com/infinita-io/notebookd/pkg/options/milvus"
	notebookopts "github.com/infinita-io/notebookd/pkg/options/notebook"
	httpopts "github.com/infinita-io/notebookd/pkg/options/server/http"
)

// ServerOptions contains the configuration options for the server.
type ServerOptions struct {
	// HTTPOptions contains HTTP server configuration.
	HTTPOptions *httpopts.Options `json:"http" mapstructure:"http"`

	// LogOptions contains logger configuration.
	LogOptions *logopts.Options `json:"log" mapstructure:"log"`

	// MilvusOptions contains Milvus database configuration.
	MilvusOptions *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// LLMOptions configures the provider used for embeddings, chat
	// completions, and audio transcription.
	LLMOptions *llmopts.ProviderOptions `json:"llm" mapstructure:"llm"`

	// NotebookOptions contains ingestion and retrieval configuration.
	NotebookOptions *notebookopts.Options `json:"notebook" mapstructure:"notebook"`

	// CacheOptions contains query cache configuration.
	CacheOptions *cacheopts.Options `json:"cache" mapstructure:"cache"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewServerOptions creates a ServerOptions instance with default values.
func NewServerOptions() *ServerOptions {
	return &ServerOptions{
		HTTPOptions:     httpopts.NewOptions(),
		LogOptions:      logopts.NewOptions(),
		MilvusOptions:   milvusopts.NewOptions(),
		LLMOptions:      llmopts.NewProviderOptions(),
		NotebookOptions: notebookopts.NewOptions(),
		CacheOptions:    cacheopts.NewOptions(),
		ShutdownTimeout: 30 * time.Second,
	}
}

// AddFlags registers all server flags on the given flagset.
func (o *ServerOptions) AddFlags(fs *pflag.FlagSet) {
	o.HTTPOptions.AddFlags(fs)
	o.LogOptions.AddFlags(fs)
	o.MilvusOptions.AddFlags(fs)
	o.LLMOptions.AddFlags(fs)
	o.NotebookOptions.AddFlags(fs)
	o.CacheOptions.AddFlags(fs)

	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout")
}

// Complete completes all the required options.
func (o *ServerOptions) Complete() error {
	if err := o.HTTPOptions.Complete(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := o.LogOptions.Complete(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := o.LLMOptions.Complete(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := o.NotebookOptions.Complete(); err != nil {
		return fmt.Errorf("notebook: %w", err)
	}
	if err := o.CacheOptions.Complete(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}

// Validate checks whether the options in ServerOptions are valid.
func (o *ServerOptions) Validate() error {
	errs := []error{}

	errs = append(errs, o.HTTPOptions.Validate()...)
	if err := o.LogOptions.Validate(); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, o.MilvusOptions.Validate()...)
	errs = append(errs, o.LLMOptions.Validate()...)
	errs = append(errs, o.NotebookOptions.Validate()...)
	errs = append(errs, o.CacheOptions.Validate()...)

	return utilerrors.NewAggregate(errs)
}

// Config builds a notebooksvc.Config based on ServerOptions.
func (o *ServerOptions) Config() (*notebooksvc.Config, error) {
	return &notebooksvc.Config{
		HTTPOptions:     o.HTTPOptions,
		LogOptions:      o.LogOptions,
		MilvusOptions:   o.MilvusOptions,
		LLMOptions:      o.LLMOptions,
		NotebookOptions: o.NotebookOptions,
		CacheOptions:    o.CacheOptions,
		ShutdownTimeout: o.ShutdownTimeout,
	}, nil
}

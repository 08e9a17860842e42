// Package app provides the notebook server application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/infinita-io/notebookd/cmd/notebookd/app/options"
	notebooksvc "github.com/infinita-io/notebookd/internal/notebook"
	"github.com/infinita-io/notebookd/pkg/app"
)

const (
	// commandDesc is the description of the command.
	commandDesc = `Notebook backend service

A retrieval-augmented knowledge base over user supplied sources.

This server provides:
  - PDF, YouTube, and raw text ingestion with vector embeddings
  - Semantic similarity search over ingested chunks
  - Grounded answers, summaries, overviews, analyses, and quizzes via LLM`
)

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := options.NewServerOptions()
	application := app.NewApp(
		app.WithName(notebooksvc.Name),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
	)

	return application
}

// run contains the main logic for initializing and running the server.
func run(opts *options.ServerOptions) app.RunFunc {
	return func() error {
		cfg, err := opts.Config()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		ctx := setupSignalContext()

		server, err := cfg.NewServer(ctx)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		return server.Run(ctx)
	}
}

// setupSignalContext returns a context that is cancelled on SIGINT or
// SIGTERM. A second signal exits immediately.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}

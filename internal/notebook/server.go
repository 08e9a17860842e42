// Package notebooksvc provides the notebook service server implementation.
package notebooksvc

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/infinita-io/notebookd/internal/notebook/biz"
	"github.com/infinita-io/notebookd/internal/notebook/extract"
	"github.com/infinita-io/notebookd/internal/notebook/handler"
	"github.com/infinita-io/notebookd/internal/notebook/router"
	"github.com/infinita-io/notebookd/internal/notebook/store"
	"github.com/infinita-io/notebookd/internal/pkg/middleware"
	"github.com/infinita-io/notebookd/pkg/app"
	"github.com/infinita-io/notebookd/pkg/component/milvus"
	"github.com/infinita-io/notebookd/pkg/llm"
	cacheopts "github.com/infinita-io/notebookd/pkg/options/cache"
	llmopts "github.com/infinita-io/notebookd/pkg/options/llm"
	logopts "github.com/infinita-io/notebookd/pkg/options/logger"
	milvusopts "github.com/infinita-io/notebookd/pkg/options/milvus"
	notebookopts "github.com/infinita-io/notebookd/pkg/options/notebook"
	httpopts "github.com/infinita-io/notebookd/pkg/options/server/http"

	// Register LLM providers.
	_ "github.com/infinita-io/notebookd/pkg/llm/ollama"
	_ "github.com/infinita-io/notebookd/pkg/llm/openai"
)

// Name is the name of the application.
const Name = "notebookd"

// Config holds the full server configuration assembled from options.
type Config struct {
	HTTPOptions     *httpopts.Options
	LogOptions      *logopts.Options
	MilvusOptions   *milvusopts.Options
	LLMOptions      *llmopts.ProviderOptions
	NotebookOptions *notebookopts.Options
	CacheOptions    *cacheopts.Options
	ShutdownTimeout time.Duration
}

// Server is the assembled notebook server.
type Server struct {
	cfg          *Config
	httpServer   *http.Server
	milvusClient *milvus.Client
	redisClient  *goredis.Client
	vectorStore  store.VectorStore
}

// NewServer builds every component of the notebook service from cfg.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	fmt.Printf("Starting %s...\n", Name)

	// 1. Logger.
	cfg.LogOptions.AddInitialField("service.name", Name)
	cfg.LogOptions.AddInitialField("service.version", app.GetVersion())
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Infow("Starting notebook service", "addr", cfg.HTTPOptions.Addr)

	// 2. Milvus client and vector store.
	milvusClient, err := milvus.New(cfg.MilvusOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize milvus: %w", err)
	}
	logger.Infow("Milvus client initialized", "address", cfg.MilvusOptions.Address)

	vectorStore := store.NewMilvusStore(milvusClient, &store.CollectionConfig{
		Name:        cfg.NotebookOptions.Collection,
		Description: "Notebook source chunks with embeddings",
		Dimension:   cfg.NotebookOptions.EmbeddingDim,
	})
	if err := vectorStore.EnsureCollection(ctx); err != nil {
		_ = milvusClient.Close(context.Background())
		return nil, fmt.Errorf("failed to ensure collection: %w", err)
	}
	logger.Infow("Vector store ready", "collection", cfg.NotebookOptions.Collection)

	// 3. Optional Redis for the query cache. A failed ping disables the
	// cache instead of failing startup.
	var redisClient *goredis.Client
	cacheEnabled := cfg.CacheOptions.Enabled
	if cacheEnabled {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.CacheOptions.Redis.Addr(),
			Password:     cfg.CacheOptions.Redis.Password,
			DB:           cfg.CacheOptions.Redis.Database,
			MaxRetries:   cfg.CacheOptions.Redis.MaxRetries,
			PoolSize:     cfg.CacheOptions.Redis.PoolSize,
			MinIdleConns: cfg.CacheOptions.Redis.MinIdleConns,
			DialTimeout:  cfg.CacheOptions.Redis.DialTimeout,
			ReadTimeout:  cfg.CacheOptions.Redis.ReadTimeout,
			WriteTimeout: cfg.CacheOptions.Redis.WriteTimeout,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warnw("Redis unavailable, query cache disabled",
				"addr", cfg.CacheOptions.Redis.Addr(), "error", err)
			_ = redisClient.Close()
			redisClient = nil
			cacheEnabled = false
		} else {
			logger.Infow("Query cache enabled",
				"addr", cfg.CacheOptions.Redis.Addr(), "ttl", cfg.CacheOptions.TTL)
		}
	}

	// 4. LLM providers. Transcription is optional; without it YouTube
	// ingestion fails per request rather than at startup.
	providerConfig := cfg.LLMOptions.ToConfigMap()

	embedProvider, err := llm.NewEmbeddingProvider(cfg.LLMOptions.Provider, providerConfig)
	if err != nil {
		_ = milvusClient.Close(context.Background())
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}

	chatProvider, err := llm.NewChatProvider(cfg.LLMOptions.Provider, providerConfig)
	if err != nil {
		_ = milvusClient.Close(context.Background())
		return nil, fmt.Errorf("failed to create chat provider: %w", err)
	}

	transcriber, err := llm.NewTranscriber(cfg.LLMOptions.Provider, providerConfig)
	if err != nil {
		logger.Warnw("Transcription unavailable, YouTube ingestion disabled",
			"provider", cfg.LLMOptions.Provider, "error", err)
		transcriber = nil
	}
	logger.Infow("LLM providers initialized",
		"provider", cfg.LLMOptions.Provider,
		"embed_model", cfg.LLMOptions.EmbedModel,
		"chat_model", cfg.LLMOptions.ChatModel)

	// 5. Business layer.
	youtube := extract.NewYouTubeExtractor(
		cfg.NotebookOptions.YTDLPPath,
		cfg.NotebookOptions.TempDir,
		transcriber,
	)

	ingestor := biz.NewIngestor(vectorStore, embedProvider, youtube, &biz.IngestorConfig{
		ChunkSize:      cfg.NotebookOptions.ChunkSize,
		ChunkOverlap:   cfg.NotebookOptions.ChunkOverlap,
		BatchSize:      cfg.NotebookOptions.BatchSize,
		ExtractWorkers: cfg.NotebookOptions.ExtractWorkers,
	})

	queryCache := biz.NewQueryCache(redisClient, &biz.QueryCacheConfig{
		Enabled:   cacheEnabled,
		TTL:       cfg.CacheOptions.TTL,
		KeyPrefix: cfg.CacheOptions.KeyPrefix,
	})

	service := biz.NewNotebookService(vectorStore, embedProvider, chatProvider, ingestor, queryCache, &biz.ServiceConfig{
		Collection: cfg.NotebookOptions.Collection,
	})

	// 6. HTTP layer.
	notebookHandler := handler.NewNotebookHandler(service)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.Recovery(),
		middleware.BodyLimit(cfg.NotebookOptions.MaxUploadSize),
	)
	router.Register(engine, notebookHandler)

	httpServer := &http.Server{
		Addr:         cfg.HTTPOptions.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.HTTPOptions.ReadTimeout,
		WriteTimeout: cfg.HTTPOptions.WriteTimeout,
		IdleTimeout:  cfg.HTTPOptions.IdleTimeout,
	}

	return &Server{
		cfg:          cfg,
		httpServer:   httpServer,
		milvusClient: milvusClient,
		redisClient:  redisClient,
		vectorStore:  vectorStore,
	}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails. Shutdown drains in-flight requests up to the configured
// timeout.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if s.redisClient != nil {
			if err := s.redisClient.Close(); err != nil {
				logger.Warnw("failed to close redis client", "error", err)
			}
		}
		if err := s.milvusClient.Close(context.Background()); err != nil {
			logger.Warnw("failed to close milvus client", "error", err)
		}
		_ = logger.Flush()
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down notebook service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("Notebook service stopped")
	return nil
}

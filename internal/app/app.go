// Package app wires configuration into the store, providers and use cases.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecrag/internal/config"
	dbRedis "github.com/kailas-cloud/vecrag/internal/db/redis"
	"github.com/kailas-cloud/vecrag/internal/domain"
	"github.com/kailas-cloud/vecrag/internal/metrics"
	documentrepo "github.com/kailas-cloud/vecrag/internal/repository/document"
	"github.com/kailas-cloud/vecrag/internal/repository/embcache"
	indexrepo "github.com/kailas-cloud/vecrag/internal/repository/index"
	searchrepo "github.com/kailas-cloud/vecrag/internal/repository/search"
	chiTransport "github.com/kailas-cloud/vecrag/internal/transport/chi"
	"github.com/kailas-cloud/vecrag/internal/transport/openai"
	answeruc "github.com/kailas-cloud/vecrag/internal/usecase/answer"
	documentuc "github.com/kailas-cloud/vecrag/internal/usecase/document"
	embeddinguc "github.com/kailas-cloud/vecrag/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/vecrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/vecrag/internal/usecase/ingest"
	"github.com/kailas-cloud/vecrag/internal/usecase/retrieval"
)

// App is the composition root. One store connection and one provider client per process.
type App struct {
	Config config.Config
	Logger *zap.Logger

	Store     *dbRedis.Store
	Index     *indexrepo.Repo
	Documents *documentuc.Service
	Ingest    *ingestuc.Service
	Retrieval *retrieval.Service
	Answer    *answeruc.Service
	Health    *healthuc.Service
}

// New connects to the store, waits for it and builds every service.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:        cfg.Database.Addrs,
		Username:     cfg.Database.Username,
		Password:     cfg.Database.Password,
		DB:           cfg.Database.DB,
		DialTimeout:  time.Duration(cfg.Database.DialTimeoutMS) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Database.WriteTimeoutMS) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	if err := store.WaitForReady(ctx, config.Seconds(cfg.Database.ReadinessTimeout)); err != nil {
		store.Close()
		return nil, fmt.Errorf("store not ready: %w", err)
	}
	logger.Info("Connected to store", zap.Strings("addrs", cfg.Database.Addrs))

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	schema := cfg.Schema()

	provider := openai.NewEmbedder(&openai.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Timeout:    config.Seconds(cfg.Embedding.TimeoutSec),
		Logger:     logger,
	})
	docEmbedder := buildEmbedder(cfg, provider, store, embeddinguc.PurposeDocument, cfg.Embedding.DocumentInstruction, logger)
	queryEmbedder := buildEmbedder(cfg, provider, store, embeddinguc.PurposeQuery, cfg.Embedding.QueryInstruction, logger)

	generator := openai.NewGenerator(&openai.Config{
		APIKey:  cfg.Generation.APIKey,
		BaseURL: cfg.Generation.BaseURL,
		Model:   cfg.Generation.Model,
		Timeout: config.Seconds(cfg.Generation.TimeoutSec),
		Logger:  logger,
	}, openai.Sampling{
		MaxTokens:   cfg.Generation.MaxTokens,
		Temperature: cfg.Generation.Temperature,
		TopP:        cfg.Generation.TopP,
	})

	idx := indexrepo.New(store, schema, logger)
	docs := documentuc.New(documentrepo.New(store, schema), idx, docEmbedder, schema.Dim)
	ret := retrieval.New(queryEmbedder, searchrepo.New(store, schema), cfg.Search.MaxK, logger)

	logger.Info("Services ready",
		zap.String("index", schema.Name),
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.Int("dimensions", schema.Dim),
		zap.Bool("embedding_cache", cfg.Embedding.CacheEnabled()),
		zap.String("generation_model", cfg.Generation.Model),
	)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		Index:     idx,
		Documents: docs,
		Ingest:    ingestuc.New(docs, cfg.Ingest.Concurrency, logger).WithMaxBatchSize(cfg.Ingest.MaxBatchSize),
		Retrieval: ret,
		Answer:    answeruc.New(ret, generator, cfg.Generation.SystemPrompt),
		Health:    healthuc.New(store, provider, logger),
	}, nil
}

// HTTPServer builds the API server over the app's services.
func (a *App) HTTPServer() *chiTransport.Server {
	return chiTransport.NewServer(a.Documents, a.Ingest, a.Retrieval, a.Answer, a.Health,
		chiTransport.Options{APIKeys: a.Config.Auth.APIKeys, DefaultK: a.Config.Search.DefaultK},
		a.Logger,
	)
}

// Close releases the store connection.
func (a *App) Close() {
	a.Store.Close()
}

// buildEmbedder assembles provider -> cache -> instrumented -> instruction.
// The instruction is outermost so the cache key includes it.
func buildEmbedder(
	cfg config.Config,
	provider *openai.Embedder,
	store *dbRedis.Store,
	purpose embeddinguc.Purpose,
	instruction string,
	logger *zap.Logger,
) domain.Embedder {
	var embedder domain.Embedder = provider
	if cfg.Embedding.CacheEnabled() {
		embedder = embcache.New(provider, store, cfg.Embedding.Model, cfg.Embedding.Dimensions, logger,
			embcache.WithTTL(config.Seconds(cfg.Embedding.CacheTTLSec)),
			embcache.WithMetrics(metrics.EmbeddingCacheTotal),
		)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, purpose, cfg.Embedding.Dimensions, logger)

	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}

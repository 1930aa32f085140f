package cli

import (
	"fmt"
	"time"

	"docrag/config"
	"docrag/internal/adapter/cache"
	"docrag/internal/adapter/chunker"
	"docrag/internal/adapter/embedding"
	"docrag/internal/adapter/index"
	"docrag/internal/adapter/searcher"
	"docrag/internal/port"
	"docrag/internal/usecase"
)

// pipeline bundles the retrieval components a command needs.
type pipeline struct {
	indexUC    *usecase.IndexUseCase
	retrieveUC *usecase.RetrieveUseCase
}

// buildPipeline wires chunker, embedder, index and search engine from
// the loaded config.
func buildPipeline(cfg *config.Config) (*pipeline, error) {
	chk, err := chunker.NewWindowChunker(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap)
	if err != nil {
		return nil, err
	}

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	metric, err := searcher.MetricByName(cfg.Retrieve.Metric)
	if err != nil {
		return nil, err
	}

	var queryCache *cache.QueryCache
	if cfg.Cache.Enabled {
		queryCache = cache.NewQueryCache(cfg.Cache.MaxSize, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
	}

	ix := index.NewMemoryIndex()
	return &pipeline{
		indexUC:    usecase.NewIndexUseCase(chk, embedder, ix, queryCache),
		retrieveUC: usecase.NewRetrieveUseCase(embedder, ix, searcher.NewBruteForce(metric), queryCache),
	}, nil
}

func buildEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "openai", "":
		return embedding.NewOpenAIEmbedder(embedding.Options{
			APIKeyEnv:   cfg.Embedding.APIKeyEnv,
			Model:       cfg.Embedding.Model,
			BaseURL:     cfg.Embedding.BaseURL,
			Dimension:   cfg.Embedding.Dimension,
			BatchSize:   cfg.Embedding.BatchSize,
			Concurrency: cfg.Embedding.Concurrency,
		})
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %q", cfg.Embedding.Provider)
	}
}

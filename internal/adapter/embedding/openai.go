package embedding

import (
	"context"
	"errors"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"docrag/internal/domain"
)

const (
	defaultBatchSize   = 100
	defaultConcurrency = 4
)

// Options configures an OpenAI-compatible embedder.
type Options struct {
	APIKeyEnv   string // environment variable holding the API key
	Model       string
	BaseURL     string // empty for the OpenAI default
	Dimension   int    // 0 to derive from the model name
	BatchSize   int    // service maximum batch size
	Concurrency int    // bound on concurrent batch requests
}

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint. Large
// inputs are split into batches of the service's maximum batch size and
// issued concurrently, bounded by the configured concurrency.
type OpenAIEmbedder struct {
	client      *openai.Client
	model       string
	dimension   int
	batchSize   int
	concurrency int
}

func NewOpenAIEmbedder(opts Options) (*OpenAIEmbedder, error) {
	apiKey := os.Getenv(opts.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("API key not found in environment variable: %s", opts.APIKeyEnv)
	}

	cfg := openai.DefaultConfig(apiKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	dimension := opts.Dimension
	if dimension == 0 {
		dimension = modelDimension(opts.Model)
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &OpenAIEmbedder{
		client:      openai.NewClientWithConfig(cfg),
		model:       opts.Model,
		dimension:   dimension,
		batchSize:   batchSize,
		concurrency: concurrency,
	}, nil
}

func modelDimension(model string) int {
	switch model {
	case "text-embedding-3-large":
		return 3072
	case "text-embedding-3-small", "text-embedding-ada-002":
		return 1536
	default:
		return 1536
	}
}

// EmbedBatch embeds texts, positionally aligned with the input. On
// failure the error is a *domain.EmbeddingError whose Succeeded field
// counts the contiguous prefix of items that were fully embedded.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	type span struct{ start, end int }
	var batches []span
	for i := 0; i < len(texts); i += e.batchSize {
		end := i + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batches = append(batches, span{start: i, end: end})
	}

	out := make([][]float32, len(texts))
	completed := make([]bool, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for bi, b := range batches {
		bi, b := bi, b
		g.Go(func() error {
			vectors, err := e.embed(gctx, texts[b.start:b.end])
			if err != nil {
				return err
			}
			copy(out[b.start:b.end], vectors)
			completed[bi] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		succeeded := 0
		for bi, b := range batches {
			if !completed[bi] {
				break
			}
			succeeded = b.end
		}
		return nil, &domain.EmbeddingError{
			Retryable: retryable(err),
			Succeeded: succeeded,
			Err:       err,
		}
	}

	return out, nil
}

// EmbedOne embeds a single text, typically a query.
func (e *OpenAIEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, &domain.EmbeddingError{Err: errors.New("service returned no embedding")}
	}
	return vectors[0], nil
}

// embed issues one request for a single batch, restoring input order
// from the per-item index in the response.
func (e *OpenAIEmbedder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("service returned %d embeddings for %d inputs", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(vectors) {
			return nil, fmt.Errorf("service returned out-of-range embedding index %d", data.Index)
		}
		vectors[data.Index] = data.Embedding
	}
	return vectors, nil
}

func (e *OpenAIEmbedder) Dimension() int {
	return e.dimension
}

func (e *OpenAIEmbedder) ModelName() string {
	return e.model
}

// retryable classifies a service failure. Rate limits, server errors
// and network-level failures are worth retrying; client errors such as
// bad credentials or malformed input are not.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == 429 || reqErr.HTTPStatusCode >= 500
	}
	return true
}

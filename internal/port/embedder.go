package port

import "context"

// Embedder generates vector embeddings for text via an external service.
type Embedder interface {
	// EmbedBatch embeds the given texts. The result is positionally
	// aligned with the input: result[i] is the embedding of texts[i].
	// On failure the returned error is a *domain.EmbeddingError whose
	// Succeeded field counts the contiguous prefix of completed items.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedOne embeds a single text, typically a query.
	EmbedOne(ctx context.Context, text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

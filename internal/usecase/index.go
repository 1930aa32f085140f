package usecase

import (
	"context"
	"fmt"
	"sync"

	"docrag/internal/adapter/cache"
	"docrag/internal/domain"
	"docrag/internal/port"
)

// IndexUseCase runs the build phase: chunk a document, embed the
// passages, and commit them into the vector index. Commits are atomic:
// an embedding failure leaves the index untouched. Calls are
// serialized so concurrent builds cannot interleave their writes.
type IndexUseCase struct {
	chunker  port.Chunker
	embedder port.Embedder
	index    port.VectorIndex
	cache    *cache.QueryCache

	mu sync.Mutex
}

// NewIndexUseCase creates the build-phase orchestrator. cache may be
// nil when no query caching is wanted.
func NewIndexUseCase(
	chunker port.Chunker,
	embedder port.Embedder,
	index port.VectorIndex,
	queryCache *cache.QueryCache,
) *IndexUseCase {
	return &IndexUseCase{
		chunker:  chunker,
		embedder: embedder,
		index:    index,
		cache:    queryCache,
	}
}

// IndexDocument chunks rawText, embeds every passage, and appends the
// entries to the index in one atomic batch. It returns the number of
// passages committed. On any failure nothing is committed.
func (u *IndexUseCase) IndexDocument(ctx context.Context, sourceID, rawText string) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	passages := u.chunker.Split(sourceID, rawText)
	if len(passages) == 0 {
		return 0, nil
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	vectors, err := u.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed document %s: %w", sourceID, err)
	}
	if len(vectors) != len(passages) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d passages", len(vectors), len(passages))
	}

	entries := make([]domain.IndexEntry, len(passages))
	for i, p := range passages {
		entries[i] = domain.IndexEntry{Passage: p, Vector: vectors[i]}
	}

	if err := u.index.InsertBatch(entries); err != nil {
		return 0, fmt.Errorf("failed to commit document %s: %w", sourceID, err)
	}

	u.invalidateCache()
	return len(entries), nil
}

// Reset clears the index. Used when a new upload replaces the corpus
// instead of extending it.
func (u *IndexUseCase) Reset() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.index.Reset()
	u.invalidateCache()
}

func (u *IndexUseCase) invalidateCache() {
	if u.cache != nil {
		u.cache.Invalidate()
	}
}

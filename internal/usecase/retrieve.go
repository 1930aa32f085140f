package usecase

import (
	"context"
	"fmt"
	"strings"

	"docrag/internal/adapter/cache"
	"docrag/internal/domain"
	"docrag/internal/port"
)

// RetrieveUseCase runs the query phase: embed the query and rank the
// indexed passages against it.
type RetrieveUseCase struct {
	embedder port.Embedder
	index    port.VectorIndex
	searcher port.Searcher
	cache    *cache.QueryCache
}

// NewRetrieveUseCase creates the query-phase orchestrator. cache may
// be nil when no query caching is wanted.
func NewRetrieveUseCase(
	embedder port.Embedder,
	index port.VectorIndex,
	searcher port.Searcher,
	queryCache *cache.QueryCache,
) *RetrieveUseCase {
	return &RetrieveUseCase{
		embedder: embedder,
		index:    index,
		searcher: searcher,
		cache:    queryCache,
	}
}

// Retrieve returns the k passages most similar to query. An empty or
// not-yet-built index yields an empty result, never an error; deciding
// what "nothing to answer from" means is left to the caller.
func (u *RetrieveUseCase) Retrieve(ctx context.Context, query string, k int) (domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if k <= 0 || u.index.IsEmpty() {
		return domain.SearchResult{}, nil
	}

	if u.cache != nil {
		if results, hit := u.cache.Get(query, k); hit {
			return results, nil
		}
	}

	vector, err := u.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	results := u.searcher.Search(u.index.All(), vector, k)

	if u.cache != nil {
		u.cache.Put(query, k, results)
	}
	return results, nil
}

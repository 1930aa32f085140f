package port

import "docrag/internal/domain"

// Searcher ranks index entries against a query embedding and returns
// the top-k hits. Implementations never mutate the entries.
type Searcher interface {
	Search(entries []domain.IndexEntry, query []float32, k int) domain.SearchResult
}

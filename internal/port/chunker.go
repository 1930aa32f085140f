package port

import "docrag/internal/domain"

// Chunker splits raw document text into retrievable passages.
// Implementations are deterministic: identical input yields an
// identical, ordered passage sequence.
type Chunker interface {
	Split(sourceID, text string) []domain.Passage
}

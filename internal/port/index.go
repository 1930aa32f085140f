package port

import "docrag/internal/domain"

// VectorIndex holds passages and their embeddings in memory.
// All entries in an index share one embedding dimensionality; an entry
// with a different vector length is rejected with *domain.DimensionError.
type VectorIndex interface {
	// Build replaces the index contents wholesale. Either every entry
	// is accepted or the index is left unchanged.
	Build(entries []domain.IndexEntry) error

	// Insert adds a single entry.
	Insert(entry domain.IndexEntry) error

	// InsertBatch adds entries atomically: either all are appended or
	// none are.
	InsertBatch(entries []domain.IndexEntry) error

	// All returns a snapshot of the entries in insertion order.
	All() []domain.IndexEntry

	Len() int

	IsEmpty() bool

	// Reset clears the index.
	Reset()
}

package index

import (
	"fmt"
	"sync"

	"docrag/internal/domain"
)

// MemoryIndex is a slice-backed in-memory vector index. Insertion order
// is preserved so search ranking can break score ties deterministically.
// The dimensionality is fixed by the first accepted entry; every later
// entry must match it.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries []domain.IndexEntry
	dim     int
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{}
}

// Build replaces the index contents wholesale. The replacement is
// atomic: if any entry fails validation the existing contents are kept.
func (ix *MemoryIndex) Build(entries []domain.IndexEntry) error {
	dim := 0
	for _, e := range entries {
		if err := validate(e, &dim); err != nil {
			return err
		}
	}

	staged := make([]domain.IndexEntry, len(entries))
	copy(staged, entries)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = staged
	ix.dim = dim
	return nil
}

// Insert adds a single entry.
func (ix *MemoryIndex) Insert(entry domain.IndexEntry) error {
	return ix.InsertBatch([]domain.IndexEntry{entry})
}

// InsertBatch appends entries atomically: all entries are validated
// against the index dimensionality before any is added.
func (ix *MemoryIndex) InsertBatch(entries []domain.IndexEntry) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	dim := ix.dim
	for _, e := range entries {
		if err := validate(e, &dim); err != nil {
			return err
		}
	}

	ix.entries = append(ix.entries, entries...)
	ix.dim = dim
	return nil
}

// All returns a snapshot of the entries in insertion order. The caller
// may iterate it without holding any lock.
func (ix *MemoryIndex) All() []domain.IndexEntry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	snapshot := make([]domain.IndexEntry, len(ix.entries))
	copy(snapshot, ix.entries)
	return snapshot
}

func (ix *MemoryIndex) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

func (ix *MemoryIndex) IsEmpty() bool {
	return ix.Len() == 0
}

// Reset clears the index, including its dimensionality.
func (ix *MemoryIndex) Reset() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = nil
	ix.dim = 0
}

// validate checks one entry against *dim, setting *dim from the first
// vector seen when it is still zero.
func validate(e domain.IndexEntry, dim *int) error {
	if e.Passage.Text == "" {
		return fmt.Errorf("index entry %q has empty passage text", e.Passage.ID)
	}
	if len(e.Vector) == 0 {
		return fmt.Errorf("index entry %q has no embedding", e.Passage.ID)
	}
	if *dim == 0 {
		*dim = len(e.Vector)
		return nil
	}
	if len(e.Vector) != *dim {
		return &domain.DimensionError{Want: *dim, Got: len(e.Vector)}
	}
	return nil
}

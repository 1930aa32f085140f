package domain

import "time"

// Passage is the unit of retrieval: an immutable slice of a source
// document produced by the chunker. Offset is the rune offset of the
// passage start within the originating document.
type Passage struct {
	ID       string
	SourceID string
	Offset   int
	Text     string
}

// Document describes an ingested source at the orchestration layer.
// Passages carry only the SourceID; filename and metadata stay here.
type Document struct {
	ID         string
	Name       string
	Type       string
	UploadedAt time.Time
	Passages   int
}

// IndexEntry pairs a passage with its embedding vector.
type IndexEntry struct {
	Passage Passage
	Vector  []float32
}

// ScoredPassage is a single search hit.
type ScoredPassage struct {
	Passage Passage
	Score   float64
}

// SearchResult is an ordered list of hits, best first, length <= k.
type SearchResult []ScoredPassage

// Texts returns the passage texts in rank order.
func (r SearchResult) Texts() []string {
	texts := make([]string, len(r))
	for i, sp := range r {
		texts[i] = sp.Passage.Text
	}
	return texts
}

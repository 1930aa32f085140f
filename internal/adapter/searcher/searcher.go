package searcher

import (
	"fmt"
	"math"
	"sort"

	"docrag/internal/domain"
)

// Metric scores the similarity of two equal-length vectors. Higher is
// more similar.
type Metric func(a, b []float32) float64

// CosineSimilarity is dot(a,b) / (|a|*|b|). A zero-norm vector scores 0
// so the search stays total.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// DotProduct is the unnormalized inner product. Appropriate when the
// indexed vectors are already L2-normalized.
func DotProduct(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// MetricByName resolves a configured metric name.
func MetricByName(name string) (Metric, error) {
	switch name {
	case "cosine", "":
		return CosineSimilarity, nil
	case "dot", "dot_product":
		return DotProduct, nil
	default:
		return nil, fmt.Errorf("unknown similarity metric: %q", name)
	}
}

// BruteForce scores every entry against the query with a linear scan.
// It is O(n*d) per query, which is the right trade-off at the target
// scale of tens to low thousands of passages.
type BruteForce struct {
	metric Metric
}

func NewBruteForce(metric Metric) *BruteForce {
	if metric == nil {
		metric = CosineSimilarity
	}
	return &BruteForce{metric: metric}
}

// Search ranks entries by descending score and returns the best k.
// Ties keep insertion order (stable sort), so results are reproducible
// for a fixed index and query. k <= 0 or empty input yields an empty
// result; k larger than len(entries) returns everything, ranked.
func (s *BruteForce) Search(entries []domain.IndexEntry, query []float32, k int) domain.SearchResult {
	if k <= 0 || len(entries) == 0 {
		return domain.SearchResult{}
	}

	results := make(domain.SearchResult, 0, len(entries))
	for _, e := range entries {
		results = append(results, domain.ScoredPassage{
			Passage: e.Passage,
			Score:   s.metric(query, e.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results
}

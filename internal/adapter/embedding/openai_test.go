package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"docrag/internal/domain"
)

const testKeyEnv = "DOCRAG_TEST_API_KEY"

// embeddingsStub serves an OpenAI-compatible /embeddings endpoint.
// Texts of the form "text-N" are embedded as [N, 1] so tests can check
// positional alignment.
func embeddingsStub(t *testing.T, requests *atomic.Int64, failWhen func(texts []string) int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		if requests != nil {
			requests.Add(1)
		}

		var req struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if failWhen != nil {
			if status := failWhen(req.Input); status != 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				fmt.Fprintf(w, `{"error":{"message":"stub failure","type":"stub"}}`)
				return
			}
		}

		type item struct {
			Object    string    `json:"object"`
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		data := make([]item, len(req.Input))
		for i, text := range req.Input {
			var n int
			if _, err := fmt.Sscanf(text, "text-%d", &n); err != nil {
				n = -1
			}
			data[i] = item{
				Object:    "embedding",
				Embedding: []float32{float32(n), 1},
				Index:     i,
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"data":   data,
			"model":  req.Model,
		})
	}))
}

func newTestEmbedder(t *testing.T, baseURL string, batchSize, concurrency int) *OpenAIEmbedder {
	t.Helper()
	t.Setenv(testKeyEnv, "test-key")

	e, err := NewOpenAIEmbedder(Options{
		APIKeyEnv:   testKeyEnv,
		Model:       "text-embedding-3-small",
		BaseURL:     baseURL + "/v1",
		BatchSize:   batchSize,
		Concurrency: concurrency,
	})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestEmbedBatchAlignment(t *testing.T) {
	var requests atomic.Int64
	srv := embeddingsStub(t, &requests, nil)
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL, 4, 3)

	texts := make([]string, 10)
	for i := range texts {
		texts[i] = fmt.Sprintf("text-%d", i)
	}

	vectors, err := e.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatal(err)
	}

	if len(vectors) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != 2 || v[0] != float32(i) {
			t.Errorf("vector %d misaligned: %v", i, v)
		}
	}

	// 10 texts at batch size 4 is 3 requests.
	if got := requests.Load(); got != 3 {
		t.Errorf("expected 3 batch requests, got %d", got)
	}
}

func TestEmbedBatchEmptyInput(t *testing.T) {
	srv := embeddingsStub(t, nil, nil)
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL, 4, 2)
	vectors, err := e.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(vectors) != 0 {
		t.Errorf("expected no vectors, got %d", len(vectors))
	}
}

func TestEmbedOne(t *testing.T) {
	srv := embeddingsStub(t, nil, nil)
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL, 4, 2)
	v, err := e.EmbedOne(context.Background(), "text-7")
	if err != nil {
		t.Fatal(err)
	}
	if len(v) != 2 || v[0] != 7 {
		t.Errorf("unexpected vector: %v", v)
	}
}

func TestEmbedBatchRetryableFailure(t *testing.T) {
	srv := embeddingsStub(t, nil, func([]string) int { return http.StatusTooManyRequests })
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL, 4, 2)
	_, err := e.EmbedBatch(context.Background(), []string{"text-0"})
	if err == nil {
		t.Fatal("expected error")
	}

	var embErr *domain.EmbeddingError
	if !errors.As(err, &embErr) {
		t.Fatalf("expected *domain.EmbeddingError, got %T", err)
	}
	if !embErr.Retryable {
		t.Error("rate limit must be classified retryable")
	}
}

func TestEmbedBatchPermanentFailure(t *testing.T) {
	srv := embeddingsStub(t, nil, func([]string) int { return http.StatusUnauthorized })
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL, 4, 2)
	_, err := e.EmbedBatch(context.Background(), []string{"text-0"})

	var embErr *domain.EmbeddingError
	if !errors.As(err, &embErr) {
		t.Fatalf("expected *domain.EmbeddingError, got %T", err)
	}
	if embErr.Retryable {
		t.Error("bad credentials must be classified non-retryable")
	}
}

func TestEmbedBatchSucceededCount(t *testing.T) {
	// Fail the batch that starts with text-5, i.e. the second of three.
	srv := embeddingsStub(t, nil, func(texts []string) int {
		if len(texts) > 0 && texts[0] == "text-5" {
			return http.StatusInternalServerError
		}
		return 0
	})
	defer srv.Close()

	// Concurrency 1 keeps batches strictly ordered, so the contiguous
	// successful prefix is exactly the first batch.
	e := newTestEmbedder(t, srv.URL, 5, 1)

	texts := make([]string, 12)
	for i := range texts {
		texts[i] = fmt.Sprintf("text-%d", i)
	}

	_, err := e.EmbedBatch(context.Background(), texts)
	if err == nil {
		t.Fatal("expected error")
	}

	var embErr *domain.EmbeddingError
	if !errors.As(err, &embErr) {
		t.Fatalf("expected *domain.EmbeddingError, got %T", err)
	}
	if embErr.Succeeded != 5 {
		t.Errorf("expected 5 succeeded items, got %d", embErr.Succeeded)
	}
}

func TestNewOpenAIEmbedderMissingKey(t *testing.T) {
	t.Setenv(testKeyEnv, "")
	_, err := NewOpenAIEmbedder(Options{APIKeyEnv: testKeyEnv, Model: "text-embedding-3-small"})
	if err == nil {
		t.Error("expected error when API key is missing")
	}
}

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(8)

	a, err := e.EmbedOne(context.Background(), "hello world")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.EmbedOne(context.Background(), "hello world")
	if err != nil {
		t.Fatal(err)
	}

	if len(a) != 8 {
		t.Fatalf("expected dimension 8, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("mock embedder must be deterministic")
		}
	}
}

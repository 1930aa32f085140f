package chunker

import (
	"reflect"
	"strings"
	"testing"
)

func TestNewWindowChunkerInvalidConfig(t *testing.T) {
	cases := []struct {
		name      string
		chunkSize int
		overlap   int
	}{
		{"zero chunk size", 0, 0},
		{"negative chunk size", -1, 0},
		{"overlap equals chunk size", 10, 10},
		{"overlap exceeds chunk size", 10, 15},
		{"negative overlap", 10, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWindowChunker(tc.chunkSize, tc.overlap)
			if err == nil {
				t.Fatalf("expected error for chunkSize=%d overlap=%d", tc.chunkSize, tc.overlap)
			}
		})
	}
}

func TestWindowChunkerOffsets(t *testing.T) {
	c, err := NewWindowChunker(1000, 200)
	if err != nil {
		t.Fatal(err)
	}

	text := strings.Repeat("a", 2500)
	passages := c.Split("doc1", text)

	if len(passages) != 4 {
		t.Fatalf("expected 4 passages, got %d", len(passages))
	}

	wantOffsets := []int{0, 800, 1600, 2400}
	for i, p := range passages {
		if p.Offset != wantOffsets[i] {
			t.Errorf("passage %d: expected offset %d, got %d", i, wantOffsets[i], p.Offset)
		}
	}

	if got := len([]rune(passages[3].Text)); got != 100 {
		t.Errorf("expected final passage of length 100, got %d", got)
	}
	for i, p := range passages[:3] {
		if got := len([]rune(p.Text)); got != 1000 {
			t.Errorf("passage %d: expected length 1000, got %d", i, got)
		}
	}
}

func TestWindowChunkerDeterminism(t *testing.T) {
	c, err := NewWindowChunker(50, 10)
	if err != nil {
		t.Fatal(err)
	}

	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 20)
	first := c.Split("doc1", text)
	second := c.Split("doc1", text)

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical passage sequences for identical input")
	}
}

func TestWindowChunkerCoverageNoOverlap(t *testing.T) {
	c, err := NewWindowChunker(7, 0)
	if err != nil {
		t.Fatal(err)
	}

	text := "abcdefghijklmnopqrstuvwxyz0123456789"
	passages := c.Split("doc1", text)

	var sb strings.Builder
	for _, p := range passages {
		sb.WriteString(p.Text)
	}
	if sb.String() != text {
		t.Errorf("concatenated chunks %q do not reconstruct input %q", sb.String(), text)
	}
}

func TestWindowChunkerSingleWindow(t *testing.T) {
	c, err := NewWindowChunker(1000, 200)
	if err != nil {
		t.Fatal(err)
	}

	text := "short document"
	passages := c.Split("doc1", text)

	if len(passages) != 1 {
		t.Fatalf("expected exactly one passage, got %d", len(passages))
	}
	if passages[0].Text != text {
		t.Errorf("expected passage text %q, got %q", text, passages[0].Text)
	}
	if passages[0].Offset != 0 {
		t.Errorf("expected offset 0, got %d", passages[0].Offset)
	}
}

func TestWindowChunkerDropsWhitespaceWindows(t *testing.T) {
	c, err := NewWindowChunker(5, 0)
	if err != nil {
		t.Fatal(err)
	}

	// Second window is spaces only and must be dropped.
	text := "abcde     fghij"
	passages := c.Split("doc1", text)

	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(passages))
	}
	if passages[0].Text != "abcde" || passages[1].Text != "fghij" {
		t.Errorf("unexpected passage texts: %q, %q", passages[0].Text, passages[1].Text)
	}
	if passages[1].Offset != 10 {
		t.Errorf("expected offset 10 for second passage, got %d", passages[1].Offset)
	}
}

func TestWindowChunkerEmptyInput(t *testing.T) {
	c, err := NewWindowChunker(10, 2)
	if err != nil {
		t.Fatal(err)
	}

	if got := c.Split("doc1", ""); len(got) != 0 {
		t.Errorf("expected no passages for empty input, got %d", len(got))
	}
	if got := c.Split("doc1", "   \n\t  "); len(got) != 0 {
		t.Errorf("expected no passages for whitespace input, got %d", len(got))
	}
}

func TestWindowChunkerPassageIdentity(t *testing.T) {
	c, err := NewWindowChunker(10, 0)
	if err != nil {
		t.Fatal(err)
	}

	passages := c.Split("doc1", strings.Repeat("x", 30))
	seen := make(map[string]bool)
	for _, p := range passages {
		if p.ID == "" {
			t.Error("passage has empty ID")
		}
		if seen[p.ID] {
			t.Errorf("duplicate passage ID %s", p.ID)
		}
		seen[p.ID] = true
		if p.SourceID != "doc1" {
			t.Errorf("expected SourceID doc1, got %s", p.SourceID)
		}
	}
}

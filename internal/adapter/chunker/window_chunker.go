package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"docrag/internal/domain"
)

// ErrInvalidConfig reports chunk size / overlap parameters that cannot
// produce a terminating window walk.
var ErrInvalidConfig = errors.New("invalid chunker configuration")

// WindowChunker splits text with a fixed-width sliding window over
// runes, advancing by chunkSize - overlap each step.
type WindowChunker struct {
	chunkSize int
	overlap   int
}

// NewWindowChunker validates the window parameters. chunkSize must be
// positive and overlap must satisfy 0 <= overlap < chunkSize.
func NewWindowChunker(chunkSize, overlap int) (*WindowChunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfig, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", ErrInvalidConfig, chunkSize, overlap)
	}
	return &WindowChunker{
		chunkSize: chunkSize,
		overlap:   overlap,
	}, nil
}

// Split walks text and emits one passage per window whose trimmed
// content is non-empty. The final window may be shorter than the chunk
// size. Offsets are rune offsets into text.
func (c *WindowChunker) Split(sourceID, text string) []domain.Passage {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.chunkSize - c.overlap
	var passages []domain.Passage

	for start := 0; start < len(runes); start += step {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}

		window := string(runes[start:end])
		if strings.TrimSpace(window) != "" {
			passages = append(passages, domain.Passage{
				ID:       passageID(sourceID, start),
				SourceID: sourceID,
				Offset:   start,
				Text:     window,
			})
		}
	}

	return passages
}

func passageID(sourceID string, offset int) string {
	data := fmt.Sprintf("%s:%d", sourceID, offset)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}

package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyQuery is returned when a retrieval query is blank.
var ErrEmptyQuery = errors.New("query text is empty")

// DimensionError reports an embedding whose length differs from the
// dimensionality the index was built with. It indicates a misconfigured
// or swapped embedding model and is fatal to the current build.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", e.Want, e.Got)
}

// EmbeddingError wraps a failure from the external embedding service.
// Succeeded counts the contiguous prefix of input items that were
// embedded before the failure, so a caller may retry only the remainder.
type EmbeddingError struct {
	Retryable bool
	Succeeded int
	Err       error
}

func (e *EmbeddingError) Error() string {
	kind := "permanent"
	if e.Retryable {
		kind = "retryable"
	}
	return fmt.Sprintf("embedding service error (%s, %d items succeeded): %v", kind, e.Succeeded, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

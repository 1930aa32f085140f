package port

import "context"

// LLM represents a generative language model.
type LLM interface {
	// Generate produces a complete response for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Stream produces the response incrementally, invoking onDelta for
	// each text fragment as it arrives. A non-nil error from onDelta
	// stops the stream.
	Stream(ctx context.Context, prompt string, onDelta func(delta string) error) error

	// ModelName returns the name of the model.
	ModelName() string
}

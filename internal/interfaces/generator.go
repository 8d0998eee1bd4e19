package interfaces

import (
	"context"
)

// Generator is the minimal contract the pipeline needs from an LLM backend.
// Implementations own retry, backoff, and timeout policy; a returned error
// is final.
type Generator interface {
	// Generate sends a single-prompt completion request and returns the raw
	// model text.
	Generate(ctx context.Context, prompt string, temperature float32, maxTokens int) (string, error)
}

package driven

import "context"

// LLMService provides text generation for the transform feature.
// This is an optional service - when nil, transforms are unavailable.
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero means model default.
	MaxTokens int

	// Temperature overrides the configured temperature when non-nil.
	Temperature *float32

	// JSON requests a JSON response body.
	JSON bool
}

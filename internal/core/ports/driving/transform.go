package driving

import "context"

// TransformRequest asks for text to be rewritten in an academic register.
type TransformRequest struct {
	// DocumentID scopes context retrieval. Optional.
	DocumentID string

	// Text is the passage to rewrite.
	Text string

	// Style is a free-form style hint, e.g. "formal" or "concise".
	Style string
}

// TransformResult is the rewritten text and the context used.
type TransformResult struct {
	// Text is the generated rewrite.
	Text string

	// Context is the retrieved chunk content spliced into the prompt.
	Context []string
}

// TransformService rewrites text using retrieved document context.
type TransformService interface {
	// Transform rewrites req.Text.
	// Returns domain.ErrInvalidInput for empty text and
	// domain.ErrLLMUnavailable when no generation backend is configured.
	Transform(ctx context.Context, req TransformRequest) (*TransformResult, error)
}

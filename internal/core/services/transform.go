package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
	"github.com/custodia-labs/docley/internal/logger"
)

// Ensure TransformService implements the interface.
var _ driving.TransformService = (*TransformService)(nil)

// DefaultStyle is used when a transform request has no style hint.
const DefaultStyle = "formal academic"

// contextSeparator separates retrieved chunks inside the context block.
const contextSeparator = "\n\n---\n\n"

// TransformService rewrites text with an LLM, grounded in retrieved context.
type TransformService struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService // Optional: nil makes Transform fail
	prompts   driven.PromptStore
	limit     int
}

// NewTransformService creates a new transform service.
// limit is the number of context chunks requested; zero uses the default.
func NewTransformService(
	retrieval driving.RetrievalService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	limit int,
) *TransformService {
	if limit <= 0 {
		limit = domain.DefaultMatchLimit
	}
	return &TransformService{
		retrieval: retrieval,
		llm:       llm,
		prompts:   prompts,
		limit:     limit,
	}
}

// Transform rewrites req.Text in an academic register.
// When req.DocumentID is set, the most relevant chunks of that document
// are spliced into the prompt as context.
func (s *TransformService) Transform(ctx context.Context, req driving.TransformRequest) (*driving.TransformResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("text is required: %w", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	contextChunks := []string{}
	if req.DocumentID != "" && s.retrieval != nil {
		contextChunks = s.retrieval.GetRelevantChunks(ctx, req.DocumentID, req.Text, s.limit)
	}

	prompt, err := s.buildPrompt(contextChunks, req.Style, req.Text)
	if err != nil {
		return nil, err
	}

	logger.Debug("transform: %d context chunks, prompt %d chars", len(contextChunks), len(prompt))

	out, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("generating rewrite: %w", err)
	}

	return &driving.TransformResult{
		Text:    strings.TrimSpace(out),
		Context: contextChunks,
	}, nil
}

// buildPrompt fills the rewrite template. The context block is empty
// when no chunks were retrieved.
func (s *TransformService) buildPrompt(chunks []string, style, text string) (string, error) {
	if style = strings.TrimSpace(style); style == "" {
		style = DefaultStyle
	}

	tmpl, err := s.prompts.Load(driven.PromptAcademicRewrite)
	if err != nil {
		return "", fmt.Errorf("loading prompt %s: %w", driven.PromptAcademicRewrite, err)
	}

	block := ""
	if len(chunks) > 0 {
		blockTmpl, err := s.prompts.Load(driven.PromptContextBlock)
		if err != nil {
			return "", fmt.Errorf("loading prompt %s: %w", driven.PromptContextBlock, err)
		}
		block = fmt.Sprintf(blockTmpl, strings.Join(chunks, contextSeparator))
	}

	return fmt.Sprintf(tmpl, block, style, text), nil
}

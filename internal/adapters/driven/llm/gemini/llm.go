// Package gemini provides an LLM service adapter using the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	embedgemini "github.com/custodia-labs/docley/internal/adapters/driven/embedding/gemini"
	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultModel       = "gemini-2.0-flash"
	DefaultTemperature = float32(0.4)
)

// Config holds configuration for the Gemini generation service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the generative model to use (default: gemini-2.0-flash).
	Model string

	// Temperature is the default sampling temperature.
	Temperature float32
}

// generateFunc sends one prompt with the given generation config.
type generateFunc func(ctx context.Context, cfg genai.GenerationConfig, prompt string) (*genai.GenerateContentResponse, error)

// LLMService generates text using the Gemini API.
type LLMService struct {
	client      *genai.Client
	model       string
	temperature float32
	generate    generateFunc
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	s := &LLMService{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
	s.generate = func(ctx context.Context, gc genai.GenerationConfig, prompt string) (*genai.GenerateContentResponse, error) {
		// A model per call keeps per-request options from leaking between goroutines.
		m := client.GenerativeModel(s.model)
		m.GenerationConfig = gc
		return m.GenerateContent(ctx, genai.Text(prompt))
	}
	return s, nil
}

// Generate produces a completion for prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	temp := s.temperature
	if opts.Temperature != nil {
		temp = *opts.Temperature
	}

	gc := genai.GenerationConfig{Temperature: &temp}
	if opts.MaxTokens > 0 {
		maxTokens := int32(opts.MaxTokens)
		gc.MaxOutputTokens = &maxTokens
	}
	if opts.JSON {
		gc.ResponseMIMEType = "application/json"
	}

	resp, err := s.generate(ctx, gc, prompt)
	if err != nil {
		if embedgemini.IsQuotaError(err) {
			return "", fmt.Errorf("gemini: generate: %w: %w", domain.ErrRateLimited, err)
		}
		return "", fmt.Errorf("gemini: generate: %w", err)
	}

	return responseText(resp)
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini: response has no text")
	}
	return sb.String(), nil
}

// ModelName returns the generative model name.
func (s *LLMService) ModelName() string {
	return s.model
}

// Close releases the underlying client.
func (s *LLMService) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

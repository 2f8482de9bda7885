package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
)

// ProcessInput is the input schema for the process_document tool.
type ProcessInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document to ingest"`
	Wait       bool   `json:"wait,omitempty" jsonschema:"run ingestion inline and report the outcome instead of queueing it"`
}

// ProcessOutput is the output schema for the process_document tool.
type ProcessOutput struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Chunks     int    `json:"chunks"`
	Embedded   int    `json:"embedded"`
}

// RelevantInput is the input schema for the get_relevant_chunks tool.
type RelevantInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document to search"`
	Query      string `json:"query" jsonschema:"the text to find related passages for"`
	Limit      int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// RelevantOutput is the output schema for the get_relevant_chunks tool.
type RelevantOutput struct {
	Chunks []string `json:"chunks"`
	Count  int      `json:"count"`
}

// TransformInput is the input schema for the transform_text tool.
type TransformInput struct {
	DocumentID string `json:"document_id,omitempty" jsonschema:"document whose passages give context (optional)"`
	Text       string `json:"text" jsonschema:"the text to rewrite"`
	Style      string `json:"style,omitempty" jsonschema:"style hint such as formal or concise"`
}

// TransformOutput is the output schema for the transform_text tool.
type TransformOutput struct {
	Text    string   `json:"text"`
	Context []string `json:"context"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_document",
		Description: "Extract, chunk and embed a document so it can be searched",
	}, s.handleProcess)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_relevant_chunks",
		Description: "Find the passages of a document most similar to a query",
	}, s.handleRelevant)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "transform_text",
		Description: "Rewrite text in an academic register using the document as context",
	}, s.handleTransform)
}

// handleProcess handles the process_document tool invocation.
func (s *Server) handleProcess(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessInput,
) (*mcp.CallToolResult, ProcessOutput, error) {
	id := strings.TrimSpace(input.DocumentID)
	if id == "" {
		return nil, ProcessOutput{}, fmt.Errorf("document_id is required: %w", domain.ErrInvalidInput)
	}

	if input.Wait || s.ports.Dispatcher == nil {
		if s.ports.Ingestion == nil {
			return nil, ProcessOutput{}, fmt.Errorf("ingestion: %w", ErrServiceUnavailable)
		}
		res := s.ports.Ingestion.ProcessDocument(ctx, id)
		return nil, toProcessOutput(res), nil
	}

	if err := s.ports.Dispatcher.Submit(id); err != nil {
		return nil, ProcessOutput{}, err
	}
	return nil, ProcessOutput{DocumentID: id, Status: "queued"}, nil
}

func toProcessOutput(res driving.IngestionResult) ProcessOutput {
	return ProcessOutput{
		DocumentID: res.DocumentID,
		Status:     res.Status.String(),
		Chunks:     res.Chunks,
		Embedded:   res.Embedded,
	}
}

// handleRelevant handles the get_relevant_chunks tool invocation.
func (s *Server) handleRelevant(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RelevantInput,
) (*mcp.CallToolResult, RelevantOutput, error) {
	if input.DocumentID == "" || strings.TrimSpace(input.Query) == "" {
		return nil, RelevantOutput{}, fmt.Errorf("document_id and query are required: %w", domain.ErrInvalidInput)
	}

	chunks := s.ports.Retrieval.GetRelevantChunks(ctx, input.DocumentID, input.Query, input.Limit)
	if chunks == nil {
		chunks = []string{}
	}
	return nil, RelevantOutput{Chunks: chunks, Count: len(chunks)}, nil
}

// handleTransform handles the transform_text tool invocation.
func (s *Server) handleTransform(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TransformInput,
) (*mcp.CallToolResult, TransformOutput, error) {
	if s.ports.Transform == nil {
		return nil, TransformOutput{}, fmt.Errorf("transform: %w", ErrServiceUnavailable)
	}

	result, err := s.ports.Transform.Transform(ctx, driving.TransformRequest{
		DocumentID: input.DocumentID,
		Text:       input.Text,
		Style:      input.Style,
	})
	if err != nil {
		return nil, TransformOutput{}, err
	}

	out := TransformOutput{Text: result.Text, Context: result.Context}
	if out.Context == nil {
		out.Context = []string{}
	}
	return nil, out, nil
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for Docley resources.
	uriScheme = "docley://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Template for document status.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document",
		Description: "Ingestion status and text preview of a document",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)

	// Template for document chunks.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}/chunks",
		Name:        "document-chunks",
		Description: "Stored chunks of a document in order",
		MIMEType:    "application/json",
	}, s.handleChunksResource)
}

// handleDocumentResource returns a document's status and preview.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Documents == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: docley://documents/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" || strings.Contains(docID, "/") {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	doc, err := s.ports.Documents.Get(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	info := struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Status    string    `json:"status"`
		Preview   string    `json:"preview,omitempty"`
		UpdatedAt time.Time `json:"updated_at"`
	}{
		ID:        doc.ID,
		Title:     doc.Title,
		Status:    doc.Status.String(),
		Preview:   doc.Preview,
		UpdatedAt: doc.UpdatedAt,
	}

	return jsonResource(req.Params.URI, info)
}

// handleChunksResource returns a document's chunks without embeddings.
func (s *Server) handleChunksResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Documents == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: docley://documents/{documentId}/chunks
	docID := extractChunksDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chunks, err := s.ports.Documents.Chunks(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}

	type chunkInfo struct {
		Index        int    `json:"index"`
		Content      string `json:"content"`
		HasEmbedding bool   `json:"has_embedding"`
	}

	infos := make([]chunkInfo, len(chunks))
	for i := range chunks {
		infos[i] = chunkInfo{
			Index:        chunks[i].Index,
			Content:      chunks[i].Content,
			HasEmbedding: chunks[i].HasEmbedding(),
		}
	}

	return jsonResource(req.Params.URI, infos)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDocumentID extracts the document ID from a URI like docley://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}

// extractChunksDocumentID extracts the document ID from a URI like docley://documents/{documentId}/chunks.
func extractChunksDocumentID(uri string) string {
	const suffix = "/chunks"

	id := extractDocumentID(uri)
	if !strings.HasSuffix(id, suffix) {
		return ""
	}

	return strings.TrimSuffix(id, suffix)
}

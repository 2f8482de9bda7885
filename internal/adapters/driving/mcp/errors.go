// Package mcp provides an MCP (Model Context Protocol) server adapter for Docley.
// It lets AI assistants ingest documents, retrieve relevant passages and
// request academic rewrites.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// ErrServiceUnavailable is returned by a tool whose backing service is not configured.
var ErrServiceUnavailable = errors.New("mcp: service not configured")

// Package domain defines the core business entities for Docley.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A user document with an ingestion status and a content source
//   - DocumentSource: Exactly one of inline HTML, inline plain text or a stored file
//   - Chunk: A bounded slice of a document's text with its embedding
//   - Settings: Typed application configuration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document status and preview persistence
//   - ChunkStore: Chunk persistence and similarity search
//   - FileStorage: Downloads uploaded files by storage path
//   - ExtractorRegistry: Selects a text extractor by file extension
//   - Chunker: Splits plain text into bounded chunks
//   - PromptStore: Prompt templates for generation
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, chunks are
//     stored without vectors and retrieval returns no context.
//   - LLMService: Text generation. Without it, transforms are unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven

// Package sqlite provides a SQLite-based implementation of the document and
// chunk stores.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Both stores share a single database
// connection:
//
//   - DocumentStore: document rows, status and preview
//   - ChunkStore: chunk rows with embeddings stored as little-endian float32 blobs
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Similarity Search
//
// SQLite has no vector type, so MatchChunks loads a document's embedded chunks
// and ranks them in process with cosine similarity. Searches are always scoped
// to one document, which keeps the scan small.
//
// # Data Location
//
// By default, the database is stored at ~/.docley/data/docley.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite

// Package postgres provides a Postgres implementation of the document and
// chunk stores, suitable for a Supabase database with the pgvector extension.
//
// Similarity search runs in the database through the match_document_chunks
// function defined in schema.sql.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
)

// Schema creates the tables and the match function. It is idempotent.
//
//go:embed schema.sql
var Schema string

// Store is a Postgres-backed storage that provides the document and chunk
// store interfaces through wrapper types.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewStore connects to the database at databaseURL.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database url is required: %w", domain.ErrInvalidInput)
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	config.AfterConnect = registerVectorTypes

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return &Store{pool: pool, now: time.Now}, nil
}

// registerVectorTypes teaches a new connection the vector type. The extension
// must exist before its OID can be looked up, so it is created first.
func registerVectorTypes(ctx context.Context, conn *pgx.Conn) error {
	if _, err := conn.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("enabling pgvector: %w", err)
	}
	if err := pgxvec.RegisterTypes(ctx, conn); err != nil {
		return fmt.Errorf("registering pgvector types: %w", err)
	}
	return nil
}

// Migrate applies Schema.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// Close releases all pooled connections.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// ==================== Document Store ====================

type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = `id, title, status, file_path, content_html, content, preview, created_at, updated_at`

// SaveDocument stores or updates a document.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	filePath, html, plain := domain.SourceFields(doc.Source)

	_, err := s.store.pool.Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			file_path = EXCLUDED.file_path,
			content_html = EXCLUDED.content_html,
			content = EXCLUDED.content,
			preview = EXCLUDED.preview,
			updated_at = EXCLUDED.updated_at
	`, doc.ID, doc.Title, string(doc.Status), filePath, html, plain,
		domain.TruncatePreview(doc.Preview), doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return doc, nil
}

// UpdateStatus sets the status of a document.
func (s *documentStore) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus) error {
	tag, err := s.store.pool.Exec(ctx, `
		UPDATE documents SET status = $1, updated_at = $2 WHERE id = $3
	`, string(status), s.store.now(), id)
	if err != nil {
		return fmt.Errorf("updating document status: %w", err)
	}
	return requireRow(tag)
}

// MarkReady sets status ready and stores the preview.
func (s *documentStore) MarkReady(ctx context.Context, id string, preview string) error {
	tag, err := s.store.pool.Exec(ctx, `
		UPDATE documents SET status = $1, preview = $2, updated_at = $3 WHERE id = $4
	`, string(domain.StatusReady), domain.TruncatePreview(preview), s.store.now(), id)
	if err != nil {
		return fmt.Errorf("marking document ready: %w", err)
	}
	return requireRow(tag)
}

// ListByFilePath returns documents backed by the file at path, oldest first.
func (s *documentStore) ListByFilePath(ctx context.Context, path string) ([]domain.Document, error) {
	if path == "" {
		return nil, nil
	}

	rows, err := s.store.pool.Query(ctx, `
		SELECT `+documentColumns+` FROM documents
		WHERE file_path = $1
		ORDER BY created_at, id
	`, path)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// ==================== Chunk Store ====================

type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// DeleteChunks removes every chunk of a document.
func (s *chunkStore) DeleteChunks(ctx context.Context, documentID string) error {
	if _, err := s.store.pool.Exec(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// InsertChunk stores a chunk, assigning an ID if it has none.
func (s *chunkStore) InsertChunk(ctx context.Context, chunk *domain.Chunk) error {
	if chunk == nil || chunk.DocumentID == "" || chunk.Index < 0 {
		return domain.ErrInvalidInput
	}
	if chunk.ID == "" {
		chunk.ID = uuid.New().String()
	}

	_, err := s.store.pool.Exec(ctx, `
		INSERT INTO document_chunks (id, document_id, chunk_index, content, embedding)
		VALUES ($1, $2, $3, $4, $5)
	`, chunk.ID, chunk.DocumentID, chunk.Index, chunk.Content, toVector(chunk.Embedding))
	if err != nil {
		return fmt.Errorf("saving chunk %d: %w", chunk.Index, err)
	}
	return nil
}

// ListChunks returns a document's chunks ordered by index.
func (s *chunkStore) ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.store.pool.Query(ctx, `
		SELECT id, document_id, chunk_index, content, embedding
		FROM document_chunks WHERE document_id = $1
		ORDER BY chunk_index
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embedding *pgvector.Vector
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Index, &chunk.Content, &embedding); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Embedding = fromVector(embedding)
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// MatchChunks calls match_document_chunks and returns its ranked rows.
// Returned chunks carry no embedding.
func (s *chunkStore) MatchChunks(ctx context.Context, q domain.MatchQuery) ([]domain.ScoredChunk, error) {
	if len(q.Embedding) == 0 || q.Limit <= 0 {
		return []domain.ScoredChunk{}, nil
	}

	rows, err := s.store.pool.Query(ctx, `
		SELECT id, document_id, chunk_index, content, similarity
		FROM match_document_chunks($1, $2, $3, $4)
	`, pgvector.NewVector(q.Embedding), q.Threshold, q.Limit, q.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("matching chunks: %w", err)
	}
	defer rows.Close()

	results := make([]domain.ScoredChunk, 0, q.Limit)
	for rows.Next() {
		var sc domain.ScoredChunk
		if err := rows.Scan(&sc.ID, &sc.DocumentID, &sc.Index, &sc.Content, &sc.Similarity); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		results = append(results, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating matches: %w", err)
	}
	return results, nil
}

// ==================== Helper Functions ====================

// scanDocument scans a document row in documentColumns order.
func scanDocument(row pgx.Row) (*domain.Document, error) {
	var doc domain.Document
	var status, filePath, html, plain string

	if err := row.Scan(&doc.ID, &doc.Title, &status, &filePath, &html, &plain,
		&doc.Preview, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}

	doc.Status = domain.DocumentStatus(status)
	doc.Source = domain.SourceFromFields(filePath, html, plain)
	return &doc, nil
}

func requireRow(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// toVector converts an embedding to a query argument. A missing embedding is
// stored as NULL.
func toVector(v []float32) any {
	if len(v) == 0 {
		return nil
	}
	return pgvector.NewVector(v)
}

func fromVector(v *pgvector.Vector) []float32 {
	if v == nil || len(v.Slice()) == 0 {
		return nil
	}
	return v.Slice()
}

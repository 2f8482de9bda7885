package services

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
	"github.com/custodia-labs/docley/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionService drives extract, chunk, embed and store for one document.
type IngestionService struct {
	documents  driven.DocumentStore
	chunks     driven.ChunkStore
	files      driven.FileStorage // Optional: nil fails file-backed documents
	extractors driven.ExtractorRegistry
	chunker    driven.Chunker
	embedder   driven.EmbeddingService // Optional: nil stores chunks without vectors
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	documents driven.DocumentStore,
	chunks driven.ChunkStore,
	files driven.FileStorage,
	extractors driven.ExtractorRegistry,
	chunker driven.Chunker,
	embedder driven.EmbeddingService,
) *IngestionService {
	return &IngestionService{
		documents:  documents,
		chunks:     chunks,
		files:      files,
		extractors: extractors,
		chunker:    chunker,
		embedder:   embedder,
	}
}

// ProcessDocument runs the ingestion pipeline for one document.
//
// The document moves to processing, then to ready on success, draft when
// it has no text, or error when any step fails. Existing chunks are
// replaced only once new text has been extracted. Failures, including
// panics, are logged and reflected in the status; they are never returned.
func (s *IngestionService) ProcessDocument(ctx context.Context, documentID string) (result driving.IngestionResult) {
	result.DocumentID = documentID

	if err := s.documents.UpdateStatus(ctx, documentID, domain.StatusProcessing); err != nil {
		logger.Warn("ingest %s: marking processing: %v", documentID, err)
	}

	doc, err := s.documents.GetDocument(ctx, documentID)
	if err != nil {
		logger.Error("ingest %s: loading document: %v", documentID, err)
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("ingest %s: panic: %v\n%s", documentID, r, debug.Stack())
			result.Status = s.markFailed(ctx, documentID)
		}
	}()

	if err := s.ingest(ctx, doc, &result); err != nil {
		logger.Error("ingest %s: %v", documentID, err)
		result.Status = s.markFailed(ctx, documentID)
	}
	return result
}

// ingest runs extraction through the final status write.
func (s *IngestionService) ingest(ctx context.Context, doc *domain.Document, result *driving.IngestionResult) error {
	text, err := s.extract(ctx, doc)
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}

	if strings.TrimSpace(text) == "" {
		logger.Info("ingest %s: no content, leaving as draft", doc.ID)
		if err := s.documents.UpdateStatus(ctx, doc.ID, domain.StatusDraft); err != nil {
			return fmt.Errorf("marking draft: %w", err)
		}
		result.Status = domain.StatusDraft
		return nil
	}

	pieces := s.chunker.Split(text)
	logger.Debug("ingest %s: %d chars -> %d chunks", doc.ID, len(text), len(pieces))

	if err := s.chunks.DeleteChunks(ctx, doc.ID); err != nil {
		return fmt.Errorf("deleting old chunks: %w", err)
	}

	for i, content := range pieces {
		chunk := &domain.Chunk{
			DocumentID: doc.ID,
			Index:      i,
			Content:    content,
			Embedding:  embedOrNil(ctx, s.embedder, content),
		}
		if err := s.chunks.InsertChunk(ctx, chunk); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", i, err)
		}
		result.Chunks++
		if chunk.HasEmbedding() {
			result.Embedded++
		}
	}

	if err := s.documents.MarkReady(ctx, doc.ID, domain.TruncatePreview(text)); err != nil {
		return fmt.Errorf("marking ready: %w", err)
	}
	result.Status = domain.StatusReady

	logger.Info("ingest %s: ready (%d chunks, %d embedded)", doc.ID, result.Chunks, result.Embedded)
	return nil
}

// extract returns the plain text of a document.
// Download failures are returned; decode failures yield "".
func (s *IngestionService) extract(ctx context.Context, doc *domain.Document) (string, error) {
	switch src := doc.Source.(type) {
	case domain.FileSource:
		if s.files == nil {
			return "", fmt.Errorf("no file storage configured for %s: %w", src.Path, domain.ErrUnsupportedSource)
		}
		data, err := s.files.Download(ctx, src.Path)
		if err != nil {
			return "", fmt.Errorf("downloading %s: %w", src.Path, err)
		}
		return decode(ctx, s.extractors.ForExtension(src.Extension()), data, src.Path), nil

	case domain.HTMLSource:
		return decode(ctx, s.extractors.HTML(), []byte(src.HTML), "inline html"), nil

	case domain.PlainSource:
		return src.Text, nil

	case nil:
		return "", nil

	default:
		return "", fmt.Errorf("%w: %T", domain.ErrUnsupportedSource, src)
	}
}

// decode runs an extractor, logging and discarding any error.
func decode(ctx context.Context, e driven.FileExtractor, data []byte, name string) string {
	text, err := e.Extract(ctx, data)
	if err != nil {
		logger.Warn("extracting %s: %v", name, err)
		return ""
	}
	return text
}

// markFailed records the error status, logging if that also fails.
// The write ignores cancellation of ctx so a cancelled run is still recorded.
func (s *IngestionService) markFailed(ctx context.Context, documentID string) domain.DocumentStatus {
	ctx = context.WithoutCancel(ctx)
	if err := s.documents.UpdateStatus(ctx, documentID, domain.StatusError); err != nil {
		logger.Error("ingest %s: marking error: %v", documentID, err)
	}
	return domain.StatusError
}

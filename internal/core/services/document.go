package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DefaultTitle names documents created without a title.
const DefaultTitle = "Untitled document"

// DocumentService creates and inspects documents.
type DocumentService struct {
	documents driven.DocumentStore
	chunks    driven.ChunkStore
	clock     driven.Clock
}

// NewDocumentService creates a new document service.
// A nil clock uses the system clock.
func NewDocumentService(documents driven.DocumentStore, chunks driven.ChunkStore, clock driven.Clock) *DocumentService {
	if clock == nil {
		clock = driven.SystemClock{}
	}
	return &DocumentService{
		documents: documents,
		chunks:    chunks,
		clock:     clock,
	}
}

// Create stores a new draft document with exactly one content source.
func (s *DocumentService) Create(ctx context.Context, req driving.CreateDocumentRequest) (*domain.Document, error) {
	set := 0
	for _, v := range []string{req.HTML, req.Content, req.FilePath} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of html, content or file_path is required: %w", domain.ErrInvalidInput)
	}
	if escapesRoot(req.FilePath) {
		return nil, fmt.Errorf("file path %q: %w", req.FilePath, domain.ErrInvalidInput)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultTitle
	}

	now := s.clock.Now()
	doc := &domain.Document{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    domain.StatusDraft,
		Source:    domain.SourceFromFields(req.FilePath, req.HTML, req.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.documents.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}
	return doc, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if documentID == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.documents.GetDocument(ctx, documentID)
}

// Chunks returns the stored chunks of an existing document.
func (s *DocumentService) Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	if _, err := s.Get(ctx, documentID); err != nil {
		return nil, err
	}
	return s.chunks.ListChunks(ctx, documentID)
}

// escapesRoot reports whether any segment of path is "..".
func escapesRoot(path string) bool {
	for _, seg := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

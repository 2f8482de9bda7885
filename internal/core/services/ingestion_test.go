package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docley/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
)

type ingestionFixture struct {
	docs     *memory.DocumentStore
	chunks   *memory.ChunkStore
	files    *mockFiles
	embedder *mockEmbedder
	service  *IngestionService
}

func newIngestionFixture(t *testing.T, embedder driven.EmbeddingService) *ingestionFixture {
	t.Helper()
	f := &ingestionFixture{
		docs:   memory.NewDocumentStore(),
		chunks: memory.NewChunkStore(),
		files:  &mockFiles{files: map[string][]byte{}},
	}
	if e, ok := embedder.(*mockEmbedder); ok {
		f.embedder = e
	}
	f.service = NewIngestionService(f.docs, f.chunks, f.files, defaultExtractors(), defaultChunker(), embedder)
	return f
}

func (f *ingestionFixture) addDocument(t *testing.T, id string, src domain.DocumentSource) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.docs.SaveDocument(context.Background(), &domain.Document{
		ID: id, Title: id, Status: domain.StatusDraft, Source: src, CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *ingestionFixture) status(t *testing.T, id string) domain.DocumentStatus {
	t.Helper()
	doc, err := f.docs.GetDocument(context.Background(), id)
	require.NoError(t, err)
	return doc.Status
}

func TestProcessDocument_HTMLExample(t *testing.T) {
	f := newIngestionFixture(t, &mockEmbedder{fallback: []float32{1, 0}})
	f.addDocument(t, "doc-1", domain.HTMLSource{HTML: "<p>Paragraph one text.</p>\n\n<p>Paragraph two text.</p>"})

	result := f.service.ProcessDocument(context.Background(), "doc-1")

	assert.Equal(t, domain.StatusReady, result.Status)
	assert.Equal(t, 1, result.Chunks)
	assert.Equal(t, 1, result.Embedded)

	chunks, err := f.chunks.ListChunks(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, "Paragraph one text.\n\nParagraph two text.", chunks[0].Content)
	assert.Equal(t, []float32{1, 0}, chunks[0].Embedding)

	doc, err := f.docs.GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, doc.Status)
	assert.Equal(t, "Paragraph one text.\n\nParagraph two text.", doc.Preview)
}

func TestProcessDocument_PlainSource(t *testing.T) {
	f := newIngestionFixture(t, nil)
	f.addDocument(t, "doc-1", domain.PlainSource{Text: "First.\n\nSecond."})

	result := f.service.ProcessDocument(context.Background(), "doc-1")

	assert.Equal(t, domain.StatusReady, result.Status)
	chunks, err := f.chunks.ListChunks(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "First.\n\nSecond.", chunks[0].Content)
}

func TestProcessDocument_FileSourcePlainText(t *testing.T) {
	f := newIngestionFixture(t, nil)
	f.files.files["user-1/notes.txt"] = []byte("Uploaded notes.")
	f.addDocument(t, "doc-1", domain.FileSource{Path: "user-1/notes.txt"})

	result := f.service.ProcessDocument(context.Background(), "doc-1")

	assert.Equal(t, domain.StatusReady, result.Status)
	chunks, err := f.chunks.ListChunks(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Uploaded notes.", chunks[0].Content)
}

func TestProcessDocument_UppercaseExtensionIsRawText(t *testing.T) {
	f := newIngestionFixture(t, nil)
	f.files.files["essay.PDF"] = []byte("not really a pdf")
	f.addDocument(t, "doc-1", domain.FileSource{Path: "essay.PDF"})

	result := f.service.ProcessDocument(context.Background(), "doc-1")

	assert.Equal(t, domain.StatusReady, result.Status)
	chunks, err := f.chunks.ListChunks(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "not really a pdf", chunks[0].Content)
}

func TestProcessDocument_UndecodableFileIsDraft(t *testing.T) {
	f := newIngestionFixture(t, nil)
	f.files.files["broken.docx"] = []byte("not a zip archive")
	f.addDocument(t, "doc-1", domain.FileSource{Path: "broken.docx"})

	result := f.service.ProcessDocument(context.Background(), "doc-1")

	assert.Equal(t, domain.StatusDraft, result.Status)
	assert.Equal(t, domain.StatusDraft, f.status(t, "doc-1"))
	assert.Equal(t, 0, f.chunks.Count())
}

func TestProcessDocument_WhitespaceOnlyIsDraft(t *testing.T) {
	f := newIngestionFixture(t, &mockEmbedder{fallback: []float32{1, 0}})
	f.addDocument(t, "doc-1", domain.PlainSource{Text: "  \n\n\t  \n"})

	result := f.service.ProcessDocument(context.Background(), "doc-1")

	assert.Equal(t, domain.StatusDraft, result.Status)
	assert.Equal(t, 0, result.Chunks)
	assert.Equal(t, domain.StatusDraft, f.status(t, "doc-1"))
	assert.Equal(t, 0, f.chunks.Count())
	assert.Equal(t, 0, f.embedder.calls)
}

func TestProcessDocument_NoSourceIsDraft(t *testing.T) {
	f := newIngestionFixture(t, nil)
	f.addDocument(t, "doc-1", nil)

	result := f.service.ProcessDocument(context.Background(), "doc-1")

	assert.Equal(t, domain.StatusDraft, result.Status)
}

func TestProcessDocument_DraftKeepsExistingChunks(t *testing.T) {
	f := newIngestionFixture(t, nil)
	ctx := context.Background()
	f.addDocument(t, "doc-1", domain.PlainSource{Text: "Original text."})
	f.service.ProcessDocument(ctx, "doc-1")

	f.addDocument(t, "doc-1", domain.PlainSource{Text: "   "})
	result := f.service.ProcessDocument(ctx, "doc-1")

	assert.Equal(t, domain.StatusDraft, result.Status)
	chunks, err := f.chunks.ListChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Original text.", chunks[0].Content)
}

func TestProcessDocument_DownloadFailureIsError(t *testing.T) {
	f := newIngestionFixture(t, nil)
	ctx := context.Background()
	f.addDocument(t, "other", domain.PlainSource{Text: "Unrelated document."})
	require.Equal(t, domain.StatusReady, f.service.ProcessDocument(ctx, "other").Status)

	f.files.err = errors.New("storage unavailable")
	f.addDocument(t, "doc-1", domain.FileSource{Path: "missing.pdf"})

	result := f.service.ProcessDocument(ctx, "doc-1")

	assert.Equal(t, domain.StatusError, result.Status)
	assert.Equal(t, domain.StatusError, f.status(t, "doc-1"))

	// Unrelated documents are untouched.
	assert.Equal(t, domain.StatusReady, f.status(t, "other"))
	others, err := f.chunks.ListChunks(ctx, "other")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "Unrelated document.", others[0].Content)
}

func TestProcessDocument_NoFileStorageIsError(t *testing.T) {
	docs := memory.NewDocumentStore()
	chunks := memory.NewChunkStore()
	svc := NewIngestionService(docs, chunks, nil, defaultExtractors(), defaultChunker(), nil)
	require.NoError(t, docs.SaveDocument(context.Background(), &domain.Document{
		ID: "doc-1", Source: domain.FileSource{Path: "a.pdf"},
	}))

	result := svc.ProcessDocument(context.Background(), "doc-1")

	assert.Equal(t, domain.StatusError, result.Status)
}

func TestProcessDocument_MissingDocument(t *testing.T) {
	f := newIngestionFixture(t, nil)

	result := f.service.ProcessDocument(context.Background(), "missing")

	assert.Equal(t, "missing", result.DocumentID)
	assert.Empty(t, result.Status)
	assert.Equal(t, 0, f.chunks.Count())
}

func TestProcessDocument_ReingestKeepsDenseIndexes(t *testing.T) {
	f := newIngestionFixture(t, nil)
	ctx := context.Background()
	text := strings.Repeat("a", 3000) + "\n\n" + strings.Repeat("b", 3000) + "\n\n" + strings.Repeat("c", 10)
	f.addDocument(t, "doc-1", domain.PlainSource{Text: text})

	first := f.service.ProcessDocument(ctx, "doc-1")
	second := f.service.ProcessDocument(ctx, "doc-1")

	assert.Equal(t, domain.StatusReady, second.Status)
	assert.Equal(t, first.Chunks, second.Chunks)

	chunks, err := f.chunks.ListChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
	assert.Equal(t, 2, f.chunks.Count())
}

func TestProcessDocument_ReingestShrinksChunkSet(t *testing.T) {
	f := newIngestionFixture(t, nil)
	ctx := context.Background()
	f.addDocument(t, "doc-1", domain.PlainSource{Text: strings.Repeat("x", 5000) + "\n\n" + strings.Repeat("y", 5000)})
	require.Equal(t, 2, f.service.ProcessDocument(ctx, "doc-1").Chunks)

	f.addDocument(t, "doc-1", domain.PlainSource{Text: "Short now."})
	f.service.ProcessDocument(ctx, "doc-1")

	chunks, err := f.chunks.ListChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Short now.", chunks[0].Content)
}

func TestProcessDocument_EmbeddingFailureStoresNil(t *testing.T) {
	embedder := &mockEmbedder{
		vectors: map[string][]float32{"Good.": {1, 0}},
		err:     errors.New("quota exceeded"),
	}
	docs := memory.NewDocumentStore()
	chunks := memory.NewChunkStore()
	svc := NewIngestionService(docs, chunks, nil, defaultExtractors(), &splitEveryParagraph{}, embedder)
	require.NoError(t, docs.SaveDocument(context.Background(), &domain.Document{
		ID: "doc-1", Source: domain.PlainSource{Text: "Good.\n\nBad."},
	}))

	result := svc.ProcessDocument(context.Background(), "doc-1")

	assert.Equal(t, domain.StatusReady, result.Status)
	assert.Equal(t, 2, result.Chunks)
	assert.Equal(t, 1, result.Embedded)

	stored, err := chunks.ListChunks(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.True(t, stored[0].HasEmbedding())
	assert.Nil(t, stored[1].Embedding)
}

func TestProcessDocument_NoEmbedderStoresChunks(t *testing.T) {
	f := newIngestionFixture(t, nil)
	f.addDocument(t, "doc-1", domain.PlainSource{Text: "Some text."})

	result := f.service.ProcessDocument(context.Background(), "doc-1")

	assert.Equal(t, domain.StatusReady, result.Status)
	assert.Equal(t, 1, result.Chunks)
	assert.Equal(t, 0, result.Embedded)
}

func TestProcessDocument_InsertFailureIsError(t *testing.T) {
	docs := memory.NewDocumentStore()
	store := &failingChunkStore{ChunkStore: memory.NewChunkStore(), allowInserts: 1}
	svc := NewIngestionService(docs, store, nil, defaultExtractors(), &splitEveryParagraph{}, nil)
	require.NoError(t, docs.SaveDocument(context.Background(), &domain.Document{
		ID: "doc-1", Source: domain.PlainSource{Text: "one\n\ntwo\n\nthree"},
	}))

	result := svc.ProcessDocument(context.Background(), "doc-1")

	assert.Equal(t, domain.StatusError, result.Status)
	assert.Equal(t, 1, result.Chunks)
	doc, err := docs.GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, doc.Status)
}

func TestProcessDocument_PanicIsError(t *testing.T) {
	docs := memory.NewDocumentStore()
	svc := NewIngestionService(docs, memory.NewChunkStore(), nil, defaultExtractors(), panicChunker{}, nil)
	require.NoError(t, docs.SaveDocument(context.Background(), &domain.Document{
		ID: "doc-1", Source: domain.PlainSource{Text: "boom"},
	}))

	result := svc.ProcessDocument(context.Background(), "doc-1")

	assert.Equal(t, domain.StatusError, result.Status)
	doc, err := docs.GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusError, doc.Status)
}

func TestProcessDocument_CancelledContextStillRecordsError(t *testing.T) {
	f := newIngestionFixture(t, nil)
	f.files.err = context.Canceled
	f.addDocument(t, "doc-1", domain.FileSource{Path: "a.pdf"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := f.service.ProcessDocument(ctx, "doc-1")

	assert.Equal(t, domain.StatusError, result.Status)
	assert.Equal(t, domain.StatusError, f.status(t, "doc-1"))
}

func TestProcessDocument_PreviewTruncated(t *testing.T) {
	f := newIngestionFixture(t, nil)
	f.addDocument(t, "doc-1", domain.PlainSource{Text: strings.Repeat("é", domain.MaxPreviewChars+5)})

	f.service.ProcessDocument(context.Background(), "doc-1")

	doc, err := f.docs.GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPreviewChars, len([]rune(doc.Preview)))
}

// splitEveryParagraph is a Chunker that emits one chunk per paragraph.
type splitEveryParagraph struct{}

func (splitEveryParagraph) Split(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (splitEveryParagraph) MaxChars() int { return 0 }

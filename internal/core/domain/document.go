package domain

import "time"

// DocumentStatus is the ingestion state of a document.
type DocumentStatus string

// Document statuses relevant to ingestion.
const (
	// StatusDraft is the state a document is created in, and the state it
	// returns to when ingestion finds nothing to index.
	StatusDraft DocumentStatus = "draft"

	// StatusProcessing marks a document whose ingestion run has started.
	StatusProcessing DocumentStatus = "processing"

	// StatusReady marks a document whose chunks are stored and searchable.
	StatusReady DocumentStatus = "ready"

	// StatusError marks a document whose last ingestion run failed.
	StatusError DocumentStatus = "error"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusProcessing, StatusReady, StatusError:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// MaxPreviewChars bounds the plain-text preview cached on a ready document.
const MaxPreviewChars = 100_000

// Document is a user document as seen by the ingestion pipeline.
// Only the fields the pipeline reads or writes are modelled.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title.
	Title string

	// Status is the current ingestion status.
	Status DocumentStatus

	// Source is where the document's text comes from.
	Source DocumentSource

	// Preview is the plain-text cache written after a successful ingestion.
	Preview string

	// CreatedAt is when the document was created.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// TruncatePreview returns text cut to at most MaxPreviewChars characters.
// The cut is made on a rune boundary.
func TruncatePreview(text string) string {
	if len(text) <= MaxPreviewChars {
		return text
	}
	count := 0
	for i := range text {
		if count == MaxPreviewChars {
			return text[:i]
		}
		count++
	}
	return text
}

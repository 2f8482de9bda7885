package driven

import "context"

// FileExtractor turns the bytes of one file format into plain text.
type FileExtractor interface {
	// Extensions returns the file suffixes this extractor handles, with the dot.
	Extensions() []string

	// Extract returns the plain text of content.
	Extract(ctx context.Context, content []byte) (string, error)
}

// ExtractorRegistry selects a FileExtractor by file extension.
type ExtractorRegistry interface {
	// ForExtension returns the extractor for ext, or the fallback extractor
	// when no extractor is registered for it. Matching is case-sensitive.
	ForExtension(ext string) FileExtractor

	// HTML returns the extractor for inline HTML content.
	HTML() FileExtractor
}

// Chunker splits plain text into ordered chunks.
type Chunker interface {
	// Split returns the chunks of text. Empty input yields no chunks.
	Split(text string) []string

	// MaxChars returns the configured chunk budget in characters.
	MaxChars() int
}

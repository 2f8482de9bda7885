// Package plaintext is the fallback extractor for raw text bytes.
package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docley/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.FileExtractor = (*Extractor)(nil)

// Extractor decodes bytes as UTF-8 text.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns nil; the plain text extractor is the registry fallback.
func (e *Extractor) Extensions() []string {
	return nil
}

// Extract returns the content verbatim.
// Invalid UTF-8 sequences are replaced with U+FFFD.
func (e *Extractor) Extract(_ context.Context, content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}
	return strings.ToValidUTF8(string(content), "�"), nil
}

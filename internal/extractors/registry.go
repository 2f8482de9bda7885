package extractors

import (
	"sync"

	"github.com/custodia-labs/docley/internal/core/ports/driven"
	"github.com/custodia-labs/docley/internal/extractors/docx"
	"github.com/custodia-labs/docley/internal/extractors/html"
	"github.com/custodia-labs/docley/internal/extractors/pdf"
	"github.com/custodia-labs/docley/internal/extractors/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry selects a FileExtractor by file extension.
// Extensions match case-sensitively; unknown extensions fall back to plain text.
type Registry struct {
	mu       sync.RWMutex
	byExt    map[string]driven.FileExtractor
	fallback driven.FileExtractor
	html     driven.FileExtractor
}

// NewRegistry creates an empty registry with the plain text fallback.
func NewRegistry() *Registry {
	return &Registry{
		byExt:    make(map[string]driven.FileExtractor),
		fallback: plaintext.New(),
		html:     html.New(),
	}
}

// DefaultRegistry returns a registry with the PDF and DOCX extractors.
// HTML files are deliberately not registered: stored files are only
// decoded as PDF or DOCX, everything else is raw text.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	return r
}

// Register adds an extractor for each of its extensions.
// A later registration for the same extension replaces the earlier one.
func (r *Registry) Register(e driven.FileExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range e.Extensions() {
		r.byExt[ext] = e
	}
}

// ForExtension returns the extractor for ext, or the plain text fallback.
func (r *Registry) ForExtension(ext string) driven.FileExtractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.byExt[ext]; ok {
		return e
	}
	return r.fallback
}

// HTML returns the extractor used for inline HTML content.
func (r *Registry) HTML() driven.FileExtractor {
	return r.html
}

// Extensions returns the registered extensions.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	return exts
}

// Package docx extracts paragraph text from Word documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.FileExtractor = (*Extractor)(nil)

// documentPart is the archive member holding the document body.
const documentPart = "word/document.xml"

// maxDocumentBytes caps the decompressed size of documentPart.
var maxDocumentBytes int64 = 64 << 20

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file suffixes this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".docx"}
}

// Extract returns the raw paragraph text of a DOCX file.
// Paragraphs are separated by a blank line; styling is ignored.
func (e *Extractor) Extract(_ context.Context, content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("docx: open archive: %w", domain.ErrInvalidInput)
	}

	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		if file.UncompressedSize64 > uint64(maxDocumentBytes) {
			return "", fmt.Errorf("docx: %s exceeds %d bytes: %w", documentPart, maxDocumentBytes, domain.ErrInvalidInput)
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("docx: open %s: %w", documentPart, err)
		}
		defer rc.Close()

		return parseDocumentPart(rc, maxDocumentBytes)
	}
	return "", fmt.Errorf("docx: missing %s: %w", documentPart, domain.ErrInvalidInput)
}

// parseDocumentPart parses at most limit bytes. The archive header may
// understate the real size, so the stream itself is capped.
func parseDocumentPart(r io.Reader, limit int64) (string, error) {
	lr := &io.LimitedReader{R: r, N: limit + 1}
	text, err := parseDocumentXML(lr)
	if lr.N <= 0 {
		return "", fmt.Errorf("docx: %s exceeds %d bytes: %w", documentPart, limit, domain.ErrInvalidInput)
	}
	return text, err
}

// parseDocumentXML streams word/document.xml and collects paragraph text.
// Tables and text boxes are walked like the body, so their paragraphs are kept.
func parseDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("docx: parse document: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteString("\t")
			case "br", "cr":
				current.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if text := strings.TrimSpace(current.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return strings.Join(paragraphs, "\n\n"), nil
}

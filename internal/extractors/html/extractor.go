// Package html strips markup from editor HTML into paragraph text.
package html

import (
	"context"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/custodia-labs/docley/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.FileExtractor = (*Extractor)(nil)

// Extractor handles HTML documents and inline editor content.
type Extractor struct{}

// New creates a new HTML extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extensions returns the file suffixes this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".html", ".htm"}
}

// Extract strips markup from the given HTML.
// Block elements become paragraph breaks; text is not wrapped.
func (e *Extractor) Extract(_ context.Context, content []byte) (string, error) {
	return Strip(string(content)), nil
}

// Elements whose text never reaches the output.
var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Head:     true,
	atom.Svg:      true,
}

// Elements that open or close a paragraph.
var blockElements = map[atom.Atom]bool{
	atom.P:          true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Li:         true,
	atom.Ul:         true,
	atom.Ol:         true,
	atom.Tr:         true,
	atom.Table:      true,
	atom.Blockquote: true,
	atom.Pre:        true,
	atom.Section:    true,
	atom.Article:    true,
	atom.Hr:         true,
}

var (
	multiSpaces   = regexp.MustCompile(`[ \t\f\v\r\x{00a0}]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Strip removes HTML tags and returns readable text.
// Paragraphs are separated by exactly one blank line.
func Strip(content string) string {
	z := xhtml.NewTokenizer(strings.NewReader(content))

	var b strings.Builder
	depth := 0 // nesting inside skipped elements

	for {
		tt := z.Next()
		switch tt {
		case xhtml.ErrorToken:
			// io.EOF or malformed input; either way keep what was read
			return collapse(b.String())

		case xhtml.TextToken:
			if depth == 0 {
				b.Write(z.Text())
			}

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			switch {
			case tag == atom.Body:
				depth = 0
			case skippedElements[tag]:
				if tt == xhtml.StartTagToken {
					depth++
				}
			case depth > 0:
			case tag == atom.Br:
				b.WriteByte('\n')
			case blockElements[tag]:
				b.WriteString("\n\n")
			}

		case xhtml.EndTagToken:
			name, _ := z.TagName()
			tag := atom.Lookup(name)
			switch {
			case skippedElements[tag]:
				if depth > 0 {
					depth--
				}
			case depth == 0 && blockElements[tag]:
				b.WriteString("\n\n")
			}
		}
	}
}

// collapse squeezes horizontal whitespace and blank lines.
func collapse(content string) string {
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	content = strings.Join(lines, "\n")

	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

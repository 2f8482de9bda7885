// Package markdown extracts paragraph text from Markdown files.
package markdown

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/docley/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.FileExtractor = (*Extractor)(nil)

// Extractor parses Markdown and keeps the text of every block,
// dropping markup such as emphasis markers, link targets and raw HTML.
type Extractor struct {
	md goldmark.Markdown
}

// New creates a new Markdown extractor.
func New() *Extractor {
	return &Extractor{md: goldmark.New()}
}

// Extensions returns the file suffixes this extractor handles.
func (e *Extractor) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Extract returns one paragraph per Markdown block, separated by blank lines.
func (e *Extractor) Extract(ctx context.Context, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc := e.md.Parser().Parse(text.NewReader(content))

	var (
		blocks []string
		buf    strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			blocks = append(blocks, s)
		}
		buf.Reset()
	}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			if entering {
				buf.Reset()
			} else {
				flush()
			}

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if !entering {
				return ast.WalkContinue, nil
			}
			lines := node.Lines()
			buf.Reset()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(content))
			}
			flush()
			return ast.WalkSkipChildren, nil

		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(content))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte(' ')
				}
			}

		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}

		case *ast.AutoLink:
			if entering {
				buf.Write(node.Label(content))
			}

		case *ast.RawHTML, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}

	return strings.Join(blocks, "\n\n"), nil
}

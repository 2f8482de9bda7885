// Package chunker splits extracted text into paragraph-aligned chunks.
package chunker

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docley/internal/core/ports/driven"
)

// DefaultTokenBudget is the default chunk size in model tokens.
const DefaultTokenBudget = 1000

// CharsPerToken approximates the number of characters in one token.
const CharsPerToken = 4

// DefaultMaxChars is the default chunk size in characters.
const DefaultMaxChars = DefaultTokenBudget * CharsPerToken

// Separator joins paragraphs inside a chunk.
const Separator = "\n\n"

// Ensure Processor implements the interface.
var _ driven.Chunker = (*Processor)(nil)

// Processor splits text on blank lines and packs paragraphs into chunks.
type Processor struct {
	maxChars int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithMaxChars sets the chunk size in characters.
func WithMaxChars(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxChars = n
		}
	}
}

// WithTokenBudget sets the chunk size in tokens, converted with CharsPerToken.
func WithTokenBudget(tokens int) Option {
	return func(p *Processor) {
		if tokens > 0 {
			p.maxChars = tokens * CharsPerToken
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{maxChars: DefaultMaxChars}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MaxChars returns the configured chunk size in characters.
func (p *Processor) MaxChars() int {
	return p.maxChars
}

// Split splits text into chunks of at most MaxChars characters.
func (p *Processor) Split(text string) []string {
	return Split(text, p.maxChars)
}

// blankLine matches a newline followed by one or more whitespace-only lines.
var blankLine = regexp.MustCompile(`\n[ \t\r\f\v]*\n\s*`)

// Paragraphs returns the trimmed, non-empty paragraphs of text in order.
func Paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	parts := blankLine.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}

// Split greedily packs paragraphs into chunks joined by Separator.
// A chunk is closed when adding the next paragraph would exceed maxChars.
// A paragraph longer than maxChars is emitted as its own chunk, unsplit.
// Length is measured in characters, not bytes.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	var (
		chunks []string
		buf    strings.Builder
		bufLen int
		sepLen = utf8.RuneCountInString(Separator)
	)

	for _, para := range Paragraphs(text) {
		paraLen := utf8.RuneCountInString(para)

		if bufLen > 0 && bufLen+sepLen+paraLen > maxChars {
			chunks = append(chunks, buf.String())
			buf.Reset()
			bufLen = 0
		}

		if bufLen > 0 {
			buf.WriteString(Separator)
			bufLen += sepLen
		}
		buf.WriteString(para)
		bufLen += paraLen
	}

	if bufLen > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}

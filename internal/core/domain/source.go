package domain

import "strings"

// SourceKind identifies the active case of a DocumentSource.
type SourceKind string

// Source kinds.
const (
	SourceKindHTML  SourceKind = "html"
	SourceKindPlain SourceKind = "plain"
	SourceKindFile  SourceKind = "file"
)

// DocumentSource is where a document's text lives. Exactly one of
// HTMLSource, PlainSource or FileSource is active for a document.
type DocumentSource interface {
	// Kind reports which case is active.
	Kind() SourceKind
}

// HTMLSource is inline rich-text content from the editor.
type HTMLSource struct {
	HTML string
}

// Kind implements DocumentSource.
func (HTMLSource) Kind() SourceKind { return SourceKindHTML }

// PlainSource is inline plain-text content.
type PlainSource struct {
	Text string
}

// Kind implements DocumentSource.
func (PlainSource) Kind() SourceKind { return SourceKindPlain }

// FileSource references an uploaded file in file storage.
type FileSource struct {
	// Path is the opaque storage key, e.g. "user-1/essay.pdf".
	Path string
}

// Kind implements DocumentSource.
func (FileSource) Kind() SourceKind { return SourceKindFile }

// Extension returns the file suffix including the dot, matched case-sensitively.
// A path without a dot in its last segment has no extension.
func (f FileSource) Extension() string {
	name := f.Path
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// SourceFromFields builds a DocumentSource from the column layout used by
// stores: a file path, HTML content and plain content. The first non-empty
// field wins, in that order. Returns nil if all are empty.
func SourceFromFields(filePath, html, plain string) DocumentSource {
	switch {
	case filePath != "":
		return FileSource{Path: filePath}
	case html != "":
		return HTMLSource{HTML: html}
	case plain != "":
		return PlainSource{Text: plain}
	default:
		return nil
	}
}

// SourceFields is the inverse of SourceFromFields.
func SourceFields(src DocumentSource) (filePath, html, plain string) {
	switch s := src.(type) {
	case FileSource:
		return s.Path, "", ""
	case HTMLSource:
		return "", s.HTML, ""
	case PlainSource:
		return "", "", s.Text
	default:
		return "", "", ""
	}
}

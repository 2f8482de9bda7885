// Package local serves uploaded files from a directory on disk.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
)

// Ensure Storage implements the interface.
var _ driven.FileStorage = (*Storage)(nil)

// Storage reads files relative to a root directory.
type Storage struct {
	root string
}

// New creates a storage rooted at root.
func New(root string) (*Storage, error) {
	if root == "" {
		return nil, fmt.Errorf("file storage root is required: %w", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	return &Storage{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *Storage) Root() string {
	return s.root
}

// Download reads the file stored under path.
// Paths that escape the root are rejected with domain.ErrInvalidInput.
func (s *Storage) Download(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Resolve maps a storage key to an absolute path inside the root.
func (s *Storage) Resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if path == "" || clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file path %q: %w", path, domain.ErrInvalidInput)
	}
	return filepath.Join(s.root, clean), nil
}

// Key maps an absolute path inside the root back to its storage key.
// The second result is false for paths outside the root.
func (s *Storage) Key(full string) (string, bool) {
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

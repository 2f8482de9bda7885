// Package watcher re-ingests documents when their uploaded file changes on
// disk. It watches the local file-storage root and submits every document
// whose file source matches the changed path.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docley/internal/core/ports/driven"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
	"github.com/custodia-labs/docley/internal/logger"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("watcher: closed")

// Files locates uploads on disk. *local.Storage satisfies it.
type Files interface {
	// Root returns the absolute directory uploads live under.
	Root() string

	// Key maps an absolute path under Root to its storage key.
	Key(path string) (string, bool)
}

// Watcher maps file events under a root directory to ingestion submissions.
type Watcher struct {
	root       string
	files      Files
	documents  driven.DocumentStore
	dispatcher driving.IngestionDispatcher
	fsw        *fsnotify.Watcher
}

// New creates a watcher for the files root. Run starts watching.
func New(files Files, documents driven.DocumentStore, dispatcher driving.IngestionDispatcher) (*Watcher, error) {
	abs := files.Root()
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root path error: %s is not a directory", abs)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	return &Watcher{
		root:       abs,
		files:      files,
		documents:  documents,
		dispatcher: dispatcher,
		fsw:        fsw,
	}, nil
}

// Run watches the root and its subdirectories until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.addTree(w.root); err != nil {
		return err
	}
	logger.Info("Watching %s for uploads", w.root)

	for {
		select {
		case <-ctx.Done():
			return w.Close()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return ErrClosed
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrClosed
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// handleEvent submits the documents affected by event and returns their IDs.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) []string {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return nil
	}
	if isHidden(event.Name) {
		return nil
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// Removed before we got to it
		return nil
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addTree(event.Name); err != nil {
				logger.Warn("watcher: %v", err)
			}
		}
		return nil
	}

	key, ok := w.files.Key(event.Name)
	if !ok {
		return nil
	}

	docs, err := w.documents.ListByFilePath(ctx, key)
	if err != nil {
		logger.Warn("watcher: looking up documents for %s: %v", key, err)
		return nil
	}

	submitted := make([]string, 0, len(docs))
	for i := range docs {
		if err := w.dispatcher.Submit(docs[i].ID); err != nil {
			logger.Warn("watcher: submitting %s: %v", docs[i].ID, err)
			continue
		}
		submitted = append(submitted, docs[i].ID)
	}
	if len(submitted) > 0 {
		logger.Debug("watcher: %s changed, queued %v", key, submitted)
	}
	return submitted
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && isHidden(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docley/internal/core/ports/driven"
	"github.com/custodia-labs/docley/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// promptTemplate is an embedded prompt and the number of %s verbs callers
// format it with.
type promptTemplate struct {
	text string
	args int
}

// defaultPrompts are written to the prompt directory on first use and
// served whenever a file is missing or unusable.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]promptTemplate{
	driven.PromptAcademicRewrite: {args: 3, text: `You are an academic writing assistant. Rewrite the student's text so it reads as polished academic prose while keeping the student's meaning, claims and citations intact.
Do not invent facts or sources. Return ONLY the rewritten text.

%s

Style: %s

Text:
%s`},

	driven.PromptContextBlock: {args: 1, text: `The following excerpts come from the student's own document. Use them to keep terminology and argument consistent with the rest of the work:

%s`},
}

const promptReadme = `# Docley Prompts

This directory contains the prompt templates Docley sends to the language model.

## Files

- academic_rewrite.txt: rewrites student text in an academic register
- context_block.txt: wraps excerpts retrieved from the student's document

## Customisation

Edit any file to change how rewrites are phrased. Changes take effect after
the server restarts.

## Placeholders

Both prompts use Go fmt placeholders:
- academic_rewrite.txt takes three %s: the context block, the style, the text
- context_block.txt takes one %s: the retrieved excerpts

A file with the wrong number of placeholders is ignored and the built-in
prompt is used instead. Delete a file to restore its default.
`

// PromptStore serves prompt templates from user-editable files in a
// directory, falling back to the built-in defaults.
//
// Nothing touches the disk until the first Load, which creates the
// directory and writes any missing default files.
type PromptStore struct {
	dir      string
	initOnce sync.Once
	initErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore creates a prompt store rooted at dir.
// An empty dir means ~/.docley/prompts.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".docley", "prompts")
	}
	return &PromptStore{
		dir:   dir,
		cache: make(map[string]string),
	}, nil
}

// Load returns the template called name.
func (s *PromptStore) Load(name string) (string, error) {
	def, known := defaultPrompts[name]

	s.initOnce.Do(s.seed)
	if s.initErr != nil {
		if known {
			return def.text, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	prompt, err := s.read(name)
	switch {
	case err != nil && !known:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	case err != nil:
		prompt = def.text
	case known && strings.Count(prompt, "%s") != def.args:
		logger.Warn("prompt %s: expected %d %%s placeholders, using built-in prompt", name, def.args)
		prompt = def.text
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[name]; ok {
		return existing, nil
	}
	s.cache[name] = prompt
	return prompt, nil
}

// Reload forgets cached templates so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// seed creates the directory, the default prompt files and the README,
// leaving existing files alone.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	files := map[string]string{"README.md": promptReadme}
	for name, tmpl := range defaultPrompts {
		files[name+".txt"] = tmpl.text
	}
	for name, content := range files {
		if err := writeIfMissing(filepath.Join(s.dir, name), content); err != nil {
			s.initErr = fmt.Errorf("create %s: %w", name, err)
			return
		}
	}
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func writeIfMissing(path, content string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(content), 0600)
}

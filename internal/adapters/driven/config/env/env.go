// Package env layers environment variables over file-based settings.
package env

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/docley/internal/core/domain"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped and variables that are already
// set are never overwritten. With no arguments it reads ./.env.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Apply overrides settings with any environment variable named in the
// struct's env tags. Unset variables leave the existing value alone.
func Apply(settings *domain.Settings) error {
	if err := env.Parse(settings); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

package driven

import "github.com/custodia-labs/docley/internal/core/domain"

// ConfigStore provides access to persisted application settings.
// Implementations handle persistence (e.g., TOML files) and merging with defaults.
type ConfigStore interface {
	// Load reads settings from storage, layered over domain.DefaultSettings.
	// A missing file is not an error; the defaults are returned.
	Load() (domain.Settings, error)

	// Save persists settings to storage.
	Save(settings domain.Settings) error

	// Path returns the configuration file path.
	Path() string
}

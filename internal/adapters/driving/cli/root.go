package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docley/internal/adapters/driven/config/env"
	"github.com/custodia-labs/docley/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "docley",
	Short: "Document ingestion and retrieval for academic writing",
	Long: `Docley turns uploaded documents into searchable chunks and uses the
most relevant ones as context when rewriting text.

Settings are read from ~/.docley/config.toml, then from the environment
(a .env file in the working directory is loaded first).`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.docley/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// loadSettings layers the defaults, the config file and the environment,
// then applies the logging settings.
func loadSettings() (domain.Settings, error) {
	settings, err := file.LoadSettings(configPath)
	if err != nil {
		return settings, err
	}
	if err := env.LoadDotEnv(); err != nil {
		return settings, err
	}
	if err := env.Apply(&settings); err != nil {
		return settings, err
	}
	if verbose {
		settings.Log.Verbose = true
	}
	logger.SetVerbose(settings.Log.Verbose)
	return settings, nil
}

// configStore returns the store behind --config.
func configStore() (*file.ConfigStore, error) {
	if configPath != "" {
		return file.NewConfigStoreAt(configPath), nil
	}
	store, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("locating config: %w", err)
	}
	return store, nil
}

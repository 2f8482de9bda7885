package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docley/internal/core/domain"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Long: `Print the settings after the config file and environment are applied.
Secrets are masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := configStore()
		if err != nil {
			return err
		}
		cmd.Println(store.Path())
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd, configInitCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(maskSecrets(settings))
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	store, err := configStore()
	if err != nil {
		return err
	}

	if !configForce {
		if _, err := os.Stat(store.Path()); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", store.Path())
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", store.Path(), err)
		}
	}

	if err := store.Save(domain.DefaultSettings()); err != nil {
		return err
	}
	cmd.Printf("Wrote %s\n", store.Path())
	return nil
}

// maskSecrets hides credentials, keeping only whether they are set.
func maskSecrets(s domain.Settings) domain.Settings {
	s.Gemini.APIKey = mask(s.Gemini.APIKey)
	s.Files.SupabaseKey = mask(s.Files.SupabaseKey)
	s.Storage.DatabaseURL = mask(s.Storage.DatabaseURL)
	return s
}

func mask(v string) string {
	if v == "" {
		return ""
	}
	return "********"
}

package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docley/internal/core/domain"
)

func TestApply_OverridesNestedSettings(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "key-from-env")
	t.Setenv("DOCLEY_STORAGE_DRIVER", "memory")
	t.Setenv("DOCLEY_MATCH_LIMIT", "9")
	t.Setenv("DOCLEY_MATCH_THRESHOLD", "0.55")
	t.Setenv("DOCLEY_WATCH_UPLOADS", "true")

	settings := domain.DefaultSettings()
	require.NoError(t, Apply(&settings))

	assert.Equal(t, "key-from-env", settings.Gemini.APIKey)
	assert.Equal(t, domain.StorageDriverMemory, settings.Storage.Driver)
	assert.Equal(t, 9, settings.Retrieval.Limit)
	assert.InDelta(t, 0.55, settings.Retrieval.Threshold, 1e-9)
	assert.True(t, settings.Watcher.Enabled)
}

func TestApply_UnsetKeepsExisting(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Server.Addr = ":9999"

	require.NoError(t, Apply(&settings))

	assert.Equal(t, ":9999", settings.Server.Addr)
	assert.Equal(t, domain.DefaultSettings().Dispatcher, settings.Dispatcher)
}

func TestApply_InvalidValue(t *testing.T) {
	t.Setenv("DOCLEY_INGEST_WORKERS", "many")

	settings := domain.DefaultSettings()
	err := Apply(&settings)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse environment")
}

func TestLoadDotEnv_MissingFileIgnored(t *testing.T) {
	err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoadDotEnv_SetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DOCLEY_FILES_BUCKET=from-dotenv\n"), 0600))

	// Register cleanup for the variable godotenv will set
	t.Setenv("DOCLEY_FILES_BUCKET", "")
	require.NoError(t, os.Unsetenv("DOCLEY_FILES_BUCKET"))

	require.NoError(t, LoadDotEnv(path))

	settings := domain.DefaultSettings()
	require.NoError(t, Apply(&settings))
	assert.Equal(t, "from-dotenv", settings.Files.Bucket)
}

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DOCLEY_ADDR=:1111\n"), 0600))
	t.Setenv("DOCLEY_ADDR", ":2222")

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, ":2222", os.Getenv("DOCLEY_ADDR"))
}

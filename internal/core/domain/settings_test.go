package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, StorageDriverSQLite, s.Storage.Driver)
	assert.Equal(t, FileDriverLocal, s.Files.Driver)
	assert.False(t, s.Gemini.IsConfigured())
	assert.Equal(t, 4000, s.Ingestion.MaxChunkChars())
	assert.Equal(t, 0.3, s.Retrieval.Threshold)
	assert.Equal(t, 5, s.Retrieval.Limit)
	assert.Positive(t, s.Dispatcher.Workers)
	assert.Positive(t, s.Dispatcher.QueueSize)
}

func TestGeminiSettings_IsConfigured(t *testing.T) {
	assert.False(t, GeminiSettings{}.IsConfigured())
	assert.True(t, GeminiSettings{APIKey: "key"}.IsConfigured())
}

func TestIngestionSettings_MaxChunkChars(t *testing.T) {
	assert.Equal(t, 800, IngestionSettings{TokenBudget: 200, CharsPerToken: 4}.MaxChunkChars())
}

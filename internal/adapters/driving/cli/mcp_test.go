package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPCmd_Structure(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
	assert.Equal(t, "serve", mcpServeCmd.Use)

	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServe_AppError(t *testing.T) {
	ta := setupTestApp(t)
	ta.err = errors.New("no store")

	_, err := executeCommand(t, "mcp", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no store")
}

func TestMCPServe_RequiresRetrieval(t *testing.T) {
	ta := setupTestApp(t)
	ta.app.Retrieval = nil

	_, err := executeCommand(t, "mcp", "serve")
	require.Error(t, err)
	assert.True(t, ta.dispatcher.stopped)
}

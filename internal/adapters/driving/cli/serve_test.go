package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("addr")
	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)

	flag = serveCmd.Flags().Lookup("watch")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)
}

func TestServeCmd_RejectsArgs(t *testing.T) {
	setupTestApp(t)

	_, err := executeCommand(t, "serve", "extra")
	assert.Error(t, err)
}

func TestServeCmd_AppError(t *testing.T) {
	ta := setupTestApp(t)
	ta.err = errors.New("database unreachable")

	_, err := executeCommand(t, "serve", "--addr", "127.0.0.1:0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unreachable")
}

func TestServeCmd_MissingServices(t *testing.T) {
	ta := setupTestApp(t)

	// No document service: the API refuses to start.
	_, err := executeCommand(t, "serve", "--addr", "127.0.0.1:0", "--watch")
	require.Error(t, err)
	assert.True(t, ta.opts.validateAI)
	assert.Equal(t, "127.0.0.1:0", ta.settings.Server.Addr)
	assert.True(t, ta.settings.Watcher.Enabled)
	assert.True(t, ta.dispatcher.started)
	assert.True(t, ta.dispatcher.stopped)
}

func TestStartWatcher_NeedsLocalFiles(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Uploads is nil: logs and returns without starting anything.
	startWatcher(ctx, &App{})
}

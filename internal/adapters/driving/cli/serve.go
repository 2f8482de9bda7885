package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docley/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docley/internal/adapters/driving/watcher"
	"github.com/custodia-labs/docley/internal/logger"
)

var (
	serveAddr  string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API with a background ingestion queue.

Documents submitted through POST /v1/documents/{id}/process are ingested by
a pool of workers. With --watch (or watcher.enabled in the config file) and
the local file driver, changed uploads are re-ingested automatically.

Examples:
  docley serve
  docley serve --addr :9090 --watch`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "re-ingest documents when their uploaded file changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		settings.Server.Addr = serveAddr
	}
	if serveWatch {
		settings.Watcher.Enabled = true
	}
	logger.SetTimestamps(true)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, settings, appOptions{validateAI: true})
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	app.Dispatcher.Start(ctx)
	defer app.Dispatcher.Stop()

	if settings.Watcher.Enabled {
		startWatcher(ctx, app)
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Documents:  app.Documents,
		Dispatcher: app.Dispatcher,
		Retrieval:  app.Retrieval,
		Transform:  app.Transform,
	})
	if err != nil {
		return err
	}

	return server.Run(ctx, settings.Server.Addr)
}

// startWatcher runs the upload watcher until ctx is cancelled.
// Failures are logged; the API keeps serving without it.
func startWatcher(ctx context.Context, app *App) {
	if app.Uploads == nil {
		logger.Warn("upload watcher needs the local file driver, not starting it")
		return
	}
	w, err := watcher.New(app.Uploads, app.DocumentStore, app.Dispatcher)
	if err != nil {
		logger.Warn("upload watcher: %v", err)
		return
	}
	go func() {
		if err := w.Run(ctx); err != nil {
			logger.Warn("upload watcher stopped: %v", err)
		}
	}()
}

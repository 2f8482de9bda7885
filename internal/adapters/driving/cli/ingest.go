package cli

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <document-id>...",
	Short: "Ingest documents and wait for the results",
	Long: `Extract, chunk, embed and store the given documents.

Documents are ingested in parallel using the dispatcher settings. The
command waits for every run and fails if any document ends in error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	var (
		mu     sync.Mutex
		failed []string
	)
	onResult := func(res driving.IngestionResult) {
		mu.Lock()
		defer mu.Unlock()
		status := res.Status
		if status == "" {
			status = domain.StatusError
		}
		cmd.Printf("%s: %s (%d chunks, %d embedded)\n", res.DocumentID, status, res.Chunks, res.Embedded)
		if status == domain.StatusError {
			failed = append(failed, res.DocumentID)
		}
	}

	// Every ID is queued before the command waits, so the queue must hold them all.
	if settings.Dispatcher.QueueSize < len(args) {
		settings.Dispatcher.QueueSize = len(args)
	}

	app, err := newApp(cmd.Context(), settings, appOptions{onResult: onResult})
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	app.Dispatcher.Start(cmd.Context())
	for _, id := range args {
		if err := app.Dispatcher.Submit(id); err != nil {
			app.Dispatcher.Stop()
			return fmt.Errorf("queueing %s: %w", id, err)
		}
	}
	app.Dispatcher.Stop()

	mu.Lock()
	defer mu.Unlock()
	if len(failed) > 0 {
		return fmt.Errorf("ingestion failed for %s", strings.Join(failed, ", "))
	}
	return nil
}

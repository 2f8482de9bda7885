package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docley/internal/adapters/driven/ai"
	"github.com/custodia-labs/docley/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docley/internal/adapters/driven/filestorage/local"
	"github.com/custodia-labs/docley/internal/adapters/driven/filestorage/supabase"
	"github.com/custodia-labs/docley/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docley/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/docley/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driven"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
	"github.com/custodia-labs/docley/internal/core/services"
	"github.com/custodia-labs/docley/internal/extractors"
	"github.com/custodia-labs/docley/internal/extractors/markdown"
	"github.com/custodia-labs/docley/internal/logger"
	"github.com/custodia-labs/docley/internal/postprocessors/chunker"
)

// dispatcher is the background ingestion queue the commands drive.
type dispatcher interface {
	driving.IngestionDispatcher
	Start(ctx context.Context)
	Stop()
}

// App holds the wired services for one command invocation.
type App struct {
	Settings   domain.Settings
	Documents  driving.DocumentService
	Ingestion  driving.IngestionService
	Dispatcher dispatcher
	Retrieval  driving.RetrievalService
	Transform  driving.TransformService

	// DocumentStore and Uploads back the upload watcher.
	// Uploads is nil unless files use the local driver.
	DocumentStore driven.DocumentStore
	Uploads       *local.Storage

	closers []func() error
}

// Close releases stores and AI clients in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// appOptions tunes how the App is built for a command.
type appOptions struct {
	// validateAI pings the embedding backend before use.
	validateAI bool

	// onResult receives every ingestion result.
	onResult func(driving.IngestionResult)
}

// newApp builds the App. Tests replace it.
var newApp = buildApp

func buildApp(ctx context.Context, settings domain.Settings, opts appOptions) (*App, error) {
	app := &App{Settings: settings}

	documents, chunks, closeStore, err := openStores(ctx, settings.Storage)
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		app.closers = append(app.closers, closeStore)
	}

	files, uploads, err := openFiles(settings.Files)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	prompts, err := file.NewPromptStore(settings.Server.PromptDir)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("opening prompts: %w", err)
	}

	aiResult := ai.Init(ctx, &settings.Gemini, opts.validateAI)
	app.closers = append(app.closers, func() error {
		aiResult.Close()
		return nil
	})

	registry := extractors.DefaultRegistry()
	if settings.Ingestion.Markdown {
		registry.Register(markdown.New())
	}

	splitter := chunker.New(chunker.WithMaxChars(settings.Ingestion.MaxChunkChars()))
	ingestion := services.NewIngestionService(
		documents, chunks, files, registry, splitter, aiResult.EmbeddingService,
	)
	retrieval := services.NewRetrievalService(
		chunks, aiResult.EmbeddingService,
		services.WithThreshold(settings.Retrieval.Threshold),
		services.WithDefaultLimit(settings.Retrieval.Limit),
	)

	dispatcherOpts := []services.DispatcherOption{
		services.WithWorkers(settings.Dispatcher.Workers),
		services.WithQueueSize(settings.Dispatcher.QueueSize),
	}
	if opts.onResult != nil {
		dispatcherOpts = append(dispatcherOpts, services.WithResultHook(opts.onResult))
	}

	app.Documents = services.NewDocumentService(documents, chunks, nil)
	app.Ingestion = ingestion
	app.Dispatcher = services.NewDispatcher(ingestion, dispatcherOpts...)
	app.Retrieval = retrieval
	app.Transform = services.NewTransformService(retrieval, aiResult.LLMService, prompts, settings.Retrieval.Limit)
	app.DocumentStore = documents
	app.Uploads = uploads

	logger.Debug("storage=%s files=%s embeddings=%t generation=%t",
		settings.Storage.Driver, settings.Files.Driver,
		aiResult.EmbeddingService != nil, aiResult.LLMService != nil)
	return app, nil
}

// openStores opens the document and chunk stores for the configured driver.
// The returned close function is nil when there is nothing to release.
func openStores(
	ctx context.Context,
	cfg domain.StorageSettings,
) (driven.DocumentStore, driven.ChunkStore, func() error, error) {
	switch cfg.Driver {
	case domain.StorageDriverMemory:
		return memory.NewDocumentStore(), memory.NewChunkStore(), nil, nil

	case domain.StorageDriverSQLite, "":
		store, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		logger.Debug("sqlite store at %s", store.Path())
		return store.DocumentStore(), store.ChunkStore(), store.Close, nil

	case domain.StorageDriverPostgres:
		store, err := postgres.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening postgres store: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, nil, nil, err
		}
		return store.DocumentStore(), store.ChunkStore(), store.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage driver %q: %w", cfg.Driver, domain.ErrInvalidInput)
	}
}

// openFiles opens the file storage for the configured driver. The local
// storage is also returned so the upload watcher can use it.
func openFiles(cfg domain.FileSettings) (driven.FileStorage, *local.Storage, error) {
	switch cfg.Driver {
	case domain.FileDriverLocal, "":
		storage, err := local.New(cfg.Root)
		if err != nil {
			return nil, nil, err
		}
		return storage, storage, nil

	case domain.FileDriverSupabase:
		storage, err := supabase.New(supabase.Config{
			URL:        cfg.SupabaseURL,
			ServiceKey: cfg.SupabaseKey,
			Bucket:     cfg.Bucket,
			Timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		return storage, nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown file driver %q: %w", cfg.Driver, domain.ErrInvalidInput)
	}
}

package services

import (
	"context"
	"runtime/debug"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
	"github.com/custodia-labs/docley/internal/logger"
)

// Ensure Dispatcher implements the interface.
var _ driving.IngestionDispatcher = (*Dispatcher)(nil)

// Default dispatcher sizing.
const (
	DefaultWorkers   = 4
	DefaultQueueSize = 256
)

// Dispatcher runs ingestion in the background on a bounded queue.
//
// Runs for the same document never overlap. Submitting a document that is
// already queued is a no-op; submitting one that is running schedules a
// single follow-up run once the current one finishes. Different documents
// are ingested in parallel up to the worker count.
type Dispatcher struct {
	ingestion driving.IngestionService
	workers   int
	onResult  func(driving.IngestionResult)

	mu      sync.Mutex
	queue   chan string
	queued  map[string]bool
	running map[string]bool
	rerun   map[string]bool
	started bool
	closed  bool
	group   *errgroup.Group
}

// DispatcherOption configures the dispatcher.
type DispatcherOption func(*Dispatcher)

// WithWorkers sets the number of concurrent ingestion workers.
func WithWorkers(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithQueueSize sets the number of documents that may wait for a worker.
func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan string, n)
		}
	}
}

// WithResultHook registers a function called after every run.
// The hook runs on the worker goroutine.
func WithResultHook(fn func(driving.IngestionResult)) DispatcherOption {
	return func(d *Dispatcher) {
		d.onResult = fn
	}
}

// NewDispatcher creates a dispatcher. Call Start to begin processing.
func NewDispatcher(ingestion driving.IngestionService, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		ingestion: ingestion,
		workers:   DefaultWorkers,
		queue:     make(chan string, DefaultQueueSize),
		queued:    make(map[string]bool),
		running:   make(map[string]bool),
		rerun:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the workers and returns immediately.
// ctx is the root context for every run; cancel it only to abort
// in-flight ingestion. Calling Start more than once has no effect.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true

	d.group, ctx = errgroup.WithContext(ctx)
	for i := 0; i < d.workers; i++ {
		d.group.Go(func() error {
			d.work(ctx)
			return nil
		})
	}
	logger.Debug("dispatcher: started %d workers", d.workers)
}

// Stop stops accepting work, drains the queue and waits for the workers.
// Documents still queued when Stop is called without Start are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	group := d.group
	d.mu.Unlock()

	if group != nil {
		_ = group.Wait()
	}
	logger.Debug("dispatcher: stopped")
}

// Submit queues a document for ingestion without blocking.
func (d *Dispatcher) Submit(documentID string) error {
	if documentID == "" {
		return domain.ErrInvalidInput
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return domain.ErrDispatcherClosed
	}
	if d.queued[documentID] {
		logger.Debug("dispatcher: %s already queued", documentID)
		return nil
	}
	if d.running[documentID] {
		logger.Debug("dispatcher: %s running, scheduling follow-up", documentID)
		d.rerun[documentID] = true
		return nil
	}

	select {
	case d.queue <- documentID:
		d.queued[documentID] = true
		return nil
	default:
		return domain.ErrQueueFull
	}
}

// Pending returns the IDs of queued and running documents, sorted.
func (d *Dispatcher) Pending() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := make([]string, 0, len(d.queued)+len(d.running))
	for id := range d.queued {
		ids = append(ids, id)
	}
	for id := range d.running {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// work consumes the queue until it is closed and drained.
func (d *Dispatcher) work(ctx context.Context) {
	for id := range d.queue {
		d.mu.Lock()
		delete(d.queued, id)
		d.running[id] = true
		d.mu.Unlock()

		for {
			d.run(ctx, id)

			d.mu.Lock()
			again := d.rerun[id]
			delete(d.rerun, id)
			if !again {
				delete(d.running, id)
			}
			d.mu.Unlock()

			if !again {
				break
			}
		}
	}
}

// run executes one ingestion inside its own error boundary.
func (d *Dispatcher) run(ctx context.Context, id string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("dispatcher: ingest %s panicked: %v\n%s", id, r, debug.Stack())
		}
	}()

	result := d.ingestion.ProcessDocument(ctx, id)
	if d.onResult != nil {
		d.onResult(result)
	}
}

package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docley/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/core/ports/driving"
)

// blockingIngestion blocks each run until released and counts runs per ID.
type blockingIngestion struct {
	mu      sync.Mutex
	runs    map[string]int
	active  map[string]int
	overlap bool
	started chan string
	release chan struct{}
}

func newBlockingIngestion() *blockingIngestion {
	return &blockingIngestion{
		runs:    map[string]int{},
		active:  map[string]int{},
		started: make(chan string, 16),
		release: make(chan struct{}),
	}
}

func (b *blockingIngestion) ProcessDocument(_ context.Context, id string) driving.IngestionResult {
	b.mu.Lock()
	b.active[id]++
	if b.active[id] > 1 {
		b.overlap = true
	}
	b.mu.Unlock()

	b.started <- id
	<-b.release

	b.mu.Lock()
	b.active[id]--
	b.runs[id]++
	b.mu.Unlock()
	return driving.IngestionResult{DocumentID: id, Status: domain.StatusReady}
}

func (b *blockingIngestion) runCount(id string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.runs[id]
}

func waitStarted(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case id := <-ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for ingestion to start")
		return ""
	}
}

func TestDispatcher_RunsSubmittedDocuments(t *testing.T) {
	var count atomic.Int32
	done := make(chan driving.IngestionResult, 3)
	ing := &mockIngestion{fn: func(_ context.Context, id string) driving.IngestionResult {
		count.Add(1)
		return driving.IngestionResult{DocumentID: id, Status: domain.StatusReady}
	}}
	d := NewDispatcher(ing, WithWorkers(2), WithResultHook(func(r driving.IngestionResult) { done <- r }))
	d.Start(context.Background())

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, d.Submit(id))
	}
	d.Stop()

	assert.Equal(t, int32(3), count.Load())
	assert.Len(t, done, 3)
	assert.Empty(t, d.Pending())
}

func TestDispatcher_SubmitValidation(t *testing.T) {
	d := NewDispatcher(&mockIngestion{})

	assert.ErrorIs(t, d.Submit(""), domain.ErrInvalidInput)
}

func TestDispatcher_QueueFull(t *testing.T) {
	d := NewDispatcher(&mockIngestion{}, WithQueueSize(2))

	require.NoError(t, d.Submit("a"))
	require.NoError(t, d.Submit("b"))
	assert.ErrorIs(t, d.Submit("c"), domain.ErrQueueFull)
	assert.Equal(t, []string{"a", "b"}, d.Pending())
}

func TestDispatcher_SubmitAfterStop(t *testing.T) {
	d := NewDispatcher(&mockIngestion{})
	d.Start(context.Background())
	d.Stop()

	assert.ErrorIs(t, d.Submit("a"), domain.ErrDispatcherClosed)
	d.Stop() // idempotent
}

func TestDispatcher_DuplicateWhileQueuedIsCoalesced(t *testing.T) {
	d := NewDispatcher(&mockIngestion{}, WithQueueSize(1))

	require.NoError(t, d.Submit("a"))
	require.NoError(t, d.Submit("a"))

	assert.Equal(t, []string{"a"}, d.Pending())
}

func TestDispatcher_DuplicateWhileRunningSchedulesOneFollowUp(t *testing.T) {
	ing := newBlockingIngestion()
	d := NewDispatcher(ing, WithWorkers(4))
	d.Start(context.Background())

	require.NoError(t, d.Submit("a"))
	assert.Equal(t, "a", waitStarted(t, ing.started))

	// Three submissions while running collapse into one follow-up run.
	require.NoError(t, d.Submit("a"))
	require.NoError(t, d.Submit("a"))
	require.NoError(t, d.Submit("a"))
	assert.Equal(t, []string{"a"}, d.Pending())

	ing.release <- struct{}{}
	assert.Equal(t, "a", waitStarted(t, ing.started))
	ing.release <- struct{}{}

	d.Stop()

	assert.Equal(t, 2, ing.runCount("a"))
	assert.False(t, ing.overlap, "runs for the same document overlapped")
}

func TestDispatcher_DifferentDocumentsRunInParallel(t *testing.T) {
	ing := newBlockingIngestion()
	d := NewDispatcher(ing, WithWorkers(2))
	d.Start(context.Background())

	require.NoError(t, d.Submit("a"))
	require.NoError(t, d.Submit("b"))

	started := []string{waitStarted(t, ing.started), waitStarted(t, ing.started)}
	assert.ElementsMatch(t, []string{"a", "b"}, started)
	assert.Equal(t, []string{"a", "b"}, d.Pending())

	close(ing.release)
	d.Stop()
}

func TestDispatcher_PanicDoesNotKillWorker(t *testing.T) {
	var calls atomic.Int32
	ing := &mockIngestion{fn: func(_ context.Context, id string) driving.IngestionResult {
		calls.Add(1)
		if id == "bad" {
			panic("worker exploded")
		}
		return driving.IngestionResult{DocumentID: id}
	}}
	d := NewDispatcher(ing, WithWorkers(1))
	d.Start(context.Background())

	require.NoError(t, d.Submit("bad"))
	require.NoError(t, d.Submit("good"))
	d.Stop()

	assert.Equal(t, int32(2), calls.Load())
}

func TestDispatcher_StopDrainsQueue(t *testing.T) {
	var calls atomic.Int32
	ing := &mockIngestion{fn: func(_ context.Context, id string) driving.IngestionResult {
		time.Sleep(5 * time.Millisecond)
		calls.Add(1)
		return driving.IngestionResult{DocumentID: id}
	}}
	d := NewDispatcher(ing, WithWorkers(1), WithQueueSize(10))
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, d.Submit(id))
	}
	d.Start(context.Background())
	d.Stop()

	assert.Equal(t, int32(4), calls.Load())
}

func TestDispatcher_IngestsThroughService(t *testing.T) {
	docs := memory.NewDocumentStore()
	chunks := memory.NewChunkStore()
	svc := NewIngestionService(docs, chunks, nil, defaultExtractors(), defaultChunker(), nil)
	require.NoError(t, docs.SaveDocument(context.Background(), &domain.Document{
		ID: "doc-1", Source: domain.HTMLSource{HTML: "<p>Body</p>"},
	}))

	d := NewDispatcher(svc)
	d.Start(context.Background())

	require.NoError(t, d.Submit("doc-1"))
	d.Stop()

	doc, err := docs.GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, doc.Status)
	assert.Equal(t, 1, chunks.Count())
}

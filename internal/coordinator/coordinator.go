// Package coordinator implements the Processing Coordinator (C10): a pool
// of worker goroutines consuming the bounded event bus and dispatching
// per-path work through the FileState registry so that no two workers ever
// run process_once on the same path concurrently.
package coordinator

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/watchstats/internal/bus"
	"github.com/standardbeagle/watchstats/internal/debug"
	"github.com/standardbeagle/watchstats/internal/event"
	"github.com/standardbeagle/watchstats/internal/processor"
	"github.com/standardbeagle/watchstats/internal/registry"
	"github.com/standardbeagle/watchstats/internal/reporter"
	"github.com/standardbeagle/watchstats/internal/stats"
	"github.com/standardbeagle/watchstats/internal/tailer"
)

// StopGrace bounds how long Stop waits for workers to drain the bus and
// return after the bus itself has been stopped.
const StopGrace = 5 * time.Second

// Coordinator owns the worker pool. Each worker has its own WorkerSlot (for
// the reporter's double-buffer swap) and its own Tailer (the chunk pool
// inside it is sync.Pool-backed and safe to share, but a worker-owned
// instance keeps each goroutine's hot path allocation-free and independent).
type Coordinator struct {
	bus      *bus.Bus
	registry *registry.Registry
	slots    []*reporter.WorkerSlot

	workers        int
	dequeueTimeout time.Duration
	chunkSize      int

	stopping atomic.Bool
	cancel   context.CancelFunc
	group    *errgroup.Group
}

// New creates a Coordinator with one WorkerSlot per worker. Slots() exposes
// them so the caller can wire them into a Reporter.
func New(b *bus.Bus, reg *registry.Registry, workers int, dequeueTimeoutMs int, chunkSize int) *Coordinator {
	slots := make([]*reporter.WorkerSlot, workers)
	for i := range slots {
		slots[i] = reporter.NewWorkerSlot()
	}
	return &Coordinator{
		bus:            b,
		registry:       reg,
		slots:          slots,
		workers:        workers,
		dequeueTimeout: time.Duration(dequeueTimeoutMs) * time.Millisecond,
		chunkSize:      chunkSize,
	}
}

// Slots returns the worker slots, in worker-index order, for the Reporter.
func (c *Coordinator) Slots() []*reporter.WorkerSlot {
	return c.slots
}

// Start launches the worker pool. It returns immediately; call Wait or Stop
// to join it.
func (c *Coordinator) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	g, gctx := errgroup.WithContext(ctx)
	c.group = g

	for i := 0; i < c.workers; i++ {
		id := i
		g.Go(func() error {
			c.runWorker(gctx, id)
			return nil
		})
	}
}

// Stop requests shutdown: it stops the bus (unblocking any worker parked in
// try_dequeue), cancels the worker context, and waits up to StopGrace for
// every worker to return. Workers that are already draining continue to
// honor delete-pending state on whatever they dequeue before exiting.
func (c *Coordinator) Stop() error {
	c.stopping.Store(true)
	c.bus.Stop()
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan error, 1)
	go func() { done <- c.group.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(StopGrace):
		debug.LogCoordinator("stop: grace period elapsed before all workers returned")
		return nil
	}
}

// Wait blocks until every worker goroutine has returned (normal completion,
// not via Stop's forced grace period).
func (c *Coordinator) Wait() error {
	if c.group == nil {
		return nil
	}
	return c.group.Wait()
}

func (c *Coordinator) runWorker(ctx context.Context, id int) {
	slot := c.slots[id]
	tl := tailer.New(c.chunkSize)

	for {
		select {
		case <-ctx.Done():
			c.drainRemaining(slot, tl)
			return
		default:
		}

		item, ok := c.bus.TryDequeue(c.dequeueTimeout)
		if !ok {
			if c.stopping.Load() {
				return
			}
			continue
		}
		c.handle(item, slot, tl)
	}
}

// drainRemaining runs a single non-blocking sweep over whatever is still
// queued once the coordinator's context has been cancelled, so events
// published just before shutdown are not silently lost.
func (c *Coordinator) drainRemaining(slot *reporter.WorkerSlot, tl *tailer.Tailer) {
	for {
		item, ok := c.bus.TryDequeue(0)
		if !ok {
			return
		}
		c.handle(item, slot, tl)
	}
}

func (c *Coordinator) handle(item event.FsEvent, slot *reporter.WorkerSlot, tl *tailer.Tailer) {
	if !item.Processable {
		slot.WithLive(func(buf *stats.Buffer) { buf.RecordFsEvent(item.Kind) })
		return
	}

	switch item.Kind {
	case event.Created, event.Modified:
		c.handleUpsert(item.Path, slot, tl)
	case event.Deleted:
		c.handleDelete(item.Path)
	case event.Renamed:
		c.handleDelete(item.OldPath)
		c.handleUpsert(item.Path, slot, tl)
	}

	slot.WithLive(func(buf *stats.Buffer) { buf.RecordFsEvent(item.Kind) })
}

func (c *Coordinator) handleUpsert(path string, slot *reporter.WorkerSlot, tl *tailer.Tailer) {
	state, _ := c.registry.GetOrCreate(path)
	if state.IsDeletePending() {
		// I1: dirty may never be set once delete-pending is observed.
		return
	}
	state.MarkDirty()

	if !state.Gate.TryLock() {
		return
	}
	defer state.Gate.Unlock()

	// The path may have been deleted (and possibly recreated) between
	// GetOrCreate and acquiring Gate: FinalizeDelete bumps the registry's
	// epoch for path, so the generation this worker captured is obsolete
	// the moment Epoch(path)+1 no longer matches it.
	if c.registry.Epoch(path)+1 != state.Generation() {
		debug.LogCoordinator("dropping stale generation %d for %s", state.Generation(), path)
		return
	}

	for state.ClearDirtyIfSet() {
		slot.WithLive(func(buf *stats.Buffer) {
			processor.ProcessOnce(path, state, buf, tl)
		})
	}

	if state.IsDeletePending() {
		c.registry.FinalizeDelete(path)
		debug.LogCoordinator("finalized deferred delete for %s", path)
	}
}

func (c *Coordinator) handleDelete(path string) {
	state, ok := c.registry.TryGet(path)
	if !ok {
		return
	}
	state.MarkDeletePending()

	if !state.Gate.TryLock() {
		return
	}
	defer state.Gate.Unlock()

	c.registry.FinalizeDelete(path)
}

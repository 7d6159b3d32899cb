// Package bus implements the bounded, drop-newest FIFO queue between the
// watcher adapter and the processing coordinator's worker pool.
package bus

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/standardbeagle/watchstats/internal/event"
)

// Bus is a fixed-capacity FIFO of FsEvents. Publish never blocks: once the
// channel buffer is full, the new item is dropped and counted rather than
// displacing anything already queued. The underlying channel is never
// closed, so a Publish racing with Stop can never panic on a send to a
// closed channel — Stop is observed through the stopped flag instead.
type Bus struct {
	items   chan event.FsEvent
	stopCh  chan struct{}
	stopped atomic.Bool
	stopOne sync.Once

	publishedCount atomic.Uint64
	droppedCount   atomic.Uint64
}

// New creates a Bus with the given capacity. Capacity must be > 0.
func New(capacity int) *Bus {
	return &Bus{
		items:  make(chan event.FsEvent, capacity),
		stopCh: make(chan struct{}),
	}
}

// Publish enqueues item without blocking. It returns false either because
// the bus is full (the item is dropped and dropped_count increments) or
// because the bus has been stopped (no counter changes — stop is not an
// overflow).
func (b *Bus) Publish(item event.FsEvent) bool {
	if b.stopped.Load() {
		return false
	}
	select {
	case b.items <- item:
		b.publishedCount.Add(1)
		return true
	default:
		b.droppedCount.Add(1)
		return false
	}
}

// TryDequeue consumes one item. timeout <= 0 returns immediately. A
// positive timeout blocks up to that duration using Go's monotonic clock
// reading (time.Timer is immune to wall-clock adjustments), returning false
// on timeout or once the bus is stopped and empty.
func (b *Bus) TryDequeue(timeout time.Duration) (event.FsEvent, bool) {
	select {
	case item := <-b.items:
		return item, true
	default:
	}
	if timeout <= 0 {
		return event.FsEvent{}, false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case item := <-b.items:
		return item, true
	case <-b.stopCh:
		select {
		case item := <-b.items:
			return item, true
		default:
			return event.FsEvent{}, false
		}
	case <-timer.C:
		return event.FsEvent{}, false
	}
}

// Stop is idempotent. It unblocks every TryDequeue call waiting on an empty
// bus and makes subsequent Publish calls return false.
func (b *Bus) Stop() {
	b.stopOne.Do(func() {
		b.stopped.Store(true)
		close(b.stopCh)
	})
}

// PublishedCount returns the running total of successfully enqueued items.
func (b *Bus) PublishedCount() uint64 {
	return b.publishedCount.Load()
}

// DroppedCount returns the running total of items dropped for overflow.
func (b *Bus) DroppedCount() uint64 {
	return b.droppedCount.Load()
}

// Depth returns a snapshot of the current queue length.
func (b *Bus) Depth() int {
	return len(b.items)
}

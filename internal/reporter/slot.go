package reporter

import (
	"sync"
	"sync/atomic"

	"github.com/standardbeagle/watchstats/internal/stats"
)

// WorkerSlot owns the two stats buffers a single coordinator worker
// alternates between across report intervals: one live (being written to),
// one shadow (exclusively owned by the reporter between swaps).
//
// The atomic pointer makes reading which buffer is live lock-free; mu
// exists only to bound each write burst and each swap to a single
// exclusive window, so a Swap can never observe a buffer with a write
// torn across more than one field. Workers pay for mu once per processed
// event, not once per field write.
type WorkerSlot struct {
	mu   sync.Mutex
	a, b *stats.Buffer
	live atomic.Pointer[stats.Buffer]
}

// NewWorkerSlot creates a slot with both buffers allocated and a pointing
// to live.
func NewWorkerSlot() *WorkerSlot {
	s := &WorkerSlot{a: stats.New(), b: stats.New()}
	s.live.Store(s.a)
	return s
}

// WithLive runs fn against the slot's current live buffer, holding mu for
// the duration so a concurrent Swap cannot hand the buffer to the reporter
// mid-write.
func (s *WorkerSlot) WithLive(fn func(*stats.Buffer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.live.Load())
}

// Swap installs the other buffer as live and returns the previous live
// buffer, which the caller now owns exclusively until the next Swap.
func (s *WorkerSlot) Swap() *stats.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.live.Load()
	next := s.a
	if current == s.a {
		next = s.b
	}
	s.live.Store(next)
	return current
}

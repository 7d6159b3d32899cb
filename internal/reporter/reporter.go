package reporter

import (
	"context"
	"sync"
	"time"

	"github.com/standardbeagle/watchstats/internal/debug"
	"github.com/standardbeagle/watchstats/internal/stats"
)

// Renderer consumes one finalized snapshot per report interval. The CLI
// wires a concrete text renderer in; tests can substitute a fake.
type Renderer interface {
	Render(GlobalSnapshot)
}

// Reporter owns the report-interval ticker. On each tick it swaps every
// worker's live/shadow buffer, merges the shadows into one GlobalSnapshot,
// and hands the result to Renderer.
type Reporter struct {
	slots    []*WorkerSlot
	interval time.Duration
	topK     int
	renderer Renderer

	wg sync.WaitGroup
}

// New creates a Reporter over the given worker slots. interval must be > 0.
func New(slots []*WorkerSlot, interval time.Duration, topK int, renderer Renderer) *Reporter {
	return &Reporter{slots: slots, interval: interval, topK: topK, renderer: renderer}
}

// Run ticks until ctx is cancelled. A tick already in progress finishes
// first; cancellation itself renders no extra report. Intended to be run in
// its own goroutine.
func (r *Reporter) Run(ctx context.Context) {
	r.wg.Add(1)
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

// Wait blocks until Run has returned.
func (r *Reporter) Wait() {
	r.wg.Wait()
}

func (r *Reporter) tick() {
	merged := stats.New()
	for _, slot := range r.slots {
		shadow := slot.Swap()
		merged.MergeFrom(shadow)
		shadow.Reset()
	}

	snap := buildSnapshot(merged, r.topK)
	debug.LogReporter("interval snapshot: lines=%d malformed=%d top_k=%d", snap.LinesProcessed, snap.Malformed, len(snap.TopK))

	if r.renderer != nil {
		r.renderer.Render(snap)
	}
}

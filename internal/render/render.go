// Package render implements the periodic text rendering collaborator: it
// consumes the reporter's finalized GlobalSnapshot and writes a
// human-readable block to an io.Writer.
package render

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/standardbeagle/watchstats/internal/event"
	"github.com/standardbeagle/watchstats/internal/logparse"
	"github.com/standardbeagle/watchstats/internal/reporter"
)

// TextRenderer writes one block per call to Render. It implements
// reporter.Renderer. A mutex guards Out in case a future caller drives
// Render from more than one goroutine; the reporter itself calls it from a
// single tick goroutine.
type TextRenderer struct {
	Out io.Writer
	mu  sync.Mutex
}

// NewTextRenderer creates a renderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{Out: w}
}

var _ reporter.Renderer = (*TextRenderer)(nil)

// Render writes the snapshot as a fixed-layout text block.
func (t *TextRenderer) Render(snap reporter.GlobalSnapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.Out, "--- %s ---\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(t.Out, "lines_processed=%d malformed=%d\n", snap.LinesProcessed, snap.Malformed)

	fmt.Fprintf(t.Out, "fs_events:")
	for k := 0; k < event.NumKinds; k++ {
		fmt.Fprintf(t.Out, " %s=%d", event.Kind(k), snap.FsEventCounts[k])
	}
	fmt.Fprintln(t.Out)

	fmt.Fprintf(t.Out, "levels:")
	for lvl := 0; lvl <= int(logparse.Other); lvl++ {
		fmt.Fprintf(t.Out, " %s=%d", logparse.Level(lvl), snap.LevelCounts[lvl])
	}
	fmt.Fprintln(t.Out)

	fmt.Fprintf(t.Out, "io_errors: file_not_found=%d access_denied=%d io_error=%d truncated_reset=%d\n",
		snap.FileNotFound, snap.AccessDenied, snap.IoErrors, snap.TruncatedReset)

	fmt.Fprintf(t.Out, "latency_ms: p50=%s p95=%s p99=%s\n",
		formatPercentile(snap.P50), formatPercentile(snap.P95), formatPercentile(snap.P99))

	fmt.Fprintln(t.Out, "top_keys:")
	if len(snap.TopK) == 0 {
		fmt.Fprintln(t.Out, "  (none)")
	}
	for i, entry := range snap.TopK {
		fmt.Fprintf(t.Out, "  %2d. %-40s %d\n", i+1, entry.Key, entry.Count)
	}
}

func formatPercentile(p *int) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d", *p)
}

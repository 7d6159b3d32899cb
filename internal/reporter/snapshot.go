package reporter

import (
	"sort"

	"github.com/standardbeagle/watchstats/internal/event"
	"github.com/standardbeagle/watchstats/internal/histogram"
	"github.com/standardbeagle/watchstats/internal/logparse"
	"github.com/standardbeagle/watchstats/internal/stats"
)

// TopKEntry is one row of the top-K message key ranking.
type TopKEntry struct {
	Key   string
	Count uint64
}

// GlobalSnapshot is the finalized per-interval aggregate: the sum of every
// worker's swapped buffer, plus the top-K message keys and the finalized
// latency percentiles.
type GlobalSnapshot struct {
	LinesProcessed uint64
	Malformed      uint64

	FsEventCounts [event.NumKinds]uint64

	FileNotFound   uint64
	AccessDenied   uint64
	IoErrors       uint64
	TruncatedReset uint64

	LevelCounts [logparse.Other + 1]uint64

	TopK []TopKEntry

	// P50/P95/P99 are nil when the interval had no latency samples.
	P50, P95, P99 *int
}

// buildSnapshot finalizes merged into a GlobalSnapshot: it runs top-K over
// the message map and computes the three percentiles from the histogram.
// merged is not mutated.
func buildSnapshot(merged *stats.Buffer, topK int) GlobalSnapshot {
	snap := GlobalSnapshot{
		LinesProcessed: merged.LinesProcessed,
		Malformed:      merged.Malformed,
		FsEventCounts:  merged.FsEventCounts,
		FileNotFound:   merged.FileNotFound,
		AccessDenied:   merged.AccessDenied,
		IoErrors:       merged.IoErrors,
		TruncatedReset: merged.TruncatedReset,
		LevelCounts:    merged.LevelCounts,
		TopK:           topMessageKeys(merged.MessageCounts, topK),
		P50:            percentileOrNil(&merged.Histogram, 0.50),
		P95:            percentileOrNil(&merged.Histogram, 0.95),
		P99:            percentileOrNil(&merged.Histogram, 0.99),
	}
	return snap
}

// topMessageKeys returns the k largest entries by count, ties broken by
// ascending lexicographic key so the ranking is stable across runs that
// merge the same counts in a different goroutine-scheduling order.
func topMessageKeys(counts map[string]uint64, k int) []TopKEntry {
	entries := make([]TopKEntry, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, TopKEntry{Key: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	if k >= 0 && len(entries) > k {
		entries = entries[:k]
	}
	return entries
}

func percentileOrNil(h *histogram.Histogram, p float64) *int {
	idx, ok := h.Percentile(p)
	if !ok {
		return nil
	}
	return &idx
}

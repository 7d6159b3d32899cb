// Package stats implements the per-worker accumulator (C7) that the file
// processor mutates and the reporter merges on a periodic interval. A
// Buffer has exactly one writer for its whole lifetime, so none of its
// fields are synchronized internally — the double-buffer WorkerSlot in
// internal/reporter, whose writes and swaps share one per-slot mutex, is
// what makes handing a shadow buffer to the reporter safe.
package stats

import (
	"github.com/standardbeagle/watchstats/internal/event"
	"github.com/standardbeagle/watchstats/internal/histogram"
	"github.com/standardbeagle/watchstats/internal/logparse"
	"github.com/standardbeagle/watchstats/internal/tailer"
)

// Buffer is the worker-owned scratch accumulator: scalar counters, a
// fixed-size level-count array, a message-key count map, and a latency
// histogram. Message keys are copied to heap strings before insertion —
// the parser's key is only a borrowed view into the scanner's line.
type Buffer struct {
	LinesProcessed uint64
	Malformed      uint64

	FsEventCounts [event.NumKinds]uint64

	// IO error taxonomy, incremented by the file processor per
	// tailer.Status outcome that represents a failure or reset.
	FileNotFound   uint64
	AccessDenied   uint64
	IoErrors       uint64
	TruncatedReset uint64

	LevelCounts [logparse.Other + 1]uint64

	MessageCounts map[string]uint64

	Histogram histogram.Histogram
}

// New creates an empty Buffer ready for a worker to write into.
func New() *Buffer {
	return &Buffer{MessageCounts: make(map[string]uint64)}
}

// Reset zeroes every counter and clears the message map in place, so the
// same Buffer allocation can be reused as a shadow buffer across report
// intervals instead of being replaced.
func (b *Buffer) Reset() {
	b.LinesProcessed = 0
	b.Malformed = 0
	b.FsEventCounts = [event.NumKinds]uint64{}
	b.FileNotFound = 0
	b.AccessDenied = 0
	b.IoErrors = 0
	b.TruncatedReset = 0
	b.LevelCounts = [logparse.Other + 1]uint64{}
	for k := range b.MessageCounts {
		delete(b.MessageCounts, k)
	}
	b.Histogram.Reset()
}

// RecordFsEvent books a filesystem-event-kind counter. Called for both
// processable and non-processable events — only non-processable events
// have nothing else to record.
func (b *Buffer) RecordFsEvent(kind event.Kind) {
	b.FsEventCounts[kind]++
}

// RecordParsed folds one successfully parsed log record into the counters:
// the level bin, the message-key count (copying key to a heap string), and
// the latency histogram if present.
func (b *Buffer) RecordParsed(rec logparse.Record) {
	b.LinesProcessed++
	b.LevelCounts[rec.Level]++
	b.MessageCounts[string(rec.Key)]++
	if rec.HasLatency {
		b.Histogram.Add(rec.LatencyMs)
	}
}

// RecordMalformed books a line that failed to parse.
func (b *Buffer) RecordMalformed() {
	b.LinesProcessed++
	b.Malformed++
}

// RecordTailStatus books the I/O error taxonomy counters the file processor
// derives from a tailer.Result. ReadSome and NoData need no counter.
func (b *Buffer) RecordTailStatus(status tailer.Status) {
	switch status {
	case tailer.StatusFileNotFound:
		b.FileNotFound++
	case tailer.StatusAccessDenied:
		b.AccessDenied++
	case tailer.StatusIoError:
		b.IoErrors++
	case tailer.StatusTruncatedReset:
		b.TruncatedReset++
	}
}

// MergeFrom folds other's counters into b, summing every field. Used by the
// reporter to combine swapped worker buffers into a single total.
func (b *Buffer) MergeFrom(other *Buffer) {
	b.LinesProcessed += other.LinesProcessed
	b.Malformed += other.Malformed
	for k := range b.FsEventCounts {
		b.FsEventCounts[k] += other.FsEventCounts[k]
	}
	b.FileNotFound += other.FileNotFound
	b.AccessDenied += other.AccessDenied
	b.IoErrors += other.IoErrors
	b.TruncatedReset += other.TruncatedReset
	for k := range b.LevelCounts {
		b.LevelCounts[k] += other.LevelCounts[k]
	}
	for key, count := range other.MessageCounts {
		b.MessageCounts[key] += count
	}
	b.Histogram.MergeFrom(&other.Histogram)
}

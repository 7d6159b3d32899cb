// Package processor implements ProcessOnce (C9): composing the tailer, line
// scanner, and log parser into a single stats-buffer mutation for one path.
// Every call must run with the owning FileState's Gate already held.
package processor

import (
	"github.com/standardbeagle/watchstats/internal/debug"
	"github.com/standardbeagle/watchstats/internal/logparse"
	"github.com/standardbeagle/watchstats/internal/registry"
	"github.com/standardbeagle/watchstats/internal/scan"
	"github.com/standardbeagle/watchstats/internal/stats"
	"github.com/standardbeagle/watchstats/internal/tailer"
)

// ProcessOnce reads whatever has been appended to path since state.Offset,
// scans it into lines, parses each line, and folds the results into buf.
// The caller holds state.Gate for the duration of this call.
//
// Offset commit rule: state.Offset only advances when bytes were actually
// read, or the tailer reports TruncatedReset (which resets it to zero even
// with nothing to read) — any other outcome leaves it untouched so the next
// attempt re-reads from the same point.
func ProcessOnce(path string, state *registry.FileState, buf *stats.Buffer, tl *tailer.Tailer) {
	result, err := tl.ReadAppended(path, state.Offset, state.Ino, func(chunk []byte) {
		scan.Scan(chunk, state.Carry, func(line []byte) {
			rec, ok := logparse.Parse(line)
			if !ok {
				buf.RecordMalformed()
				return
			}
			buf.RecordParsed(rec)
		})
	})
	if err != nil {
		debug.LogTailer("%s: %v", path, err)
	}

	buf.RecordTailStatus(result.Status)

	// A reset (genuine truncation, or a different inode under the same
	// path) leaves a stale partial line in Carry that belongs to bytes
	// that no longer precede the new read; keeping it would prepend
	// garbage to the new file's first line.
	if result.Status == tailer.StatusTruncatedReset {
		state.Carry.Clear()
	}
	if result.BytesRead > 0 || result.Status == tailer.StatusTruncatedReset {
		state.Offset = result.NewOffset
	}
	if result.Ino != 0 {
		state.Ino = result.Ino
	}
}

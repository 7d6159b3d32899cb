package registry

import (
	"sync"
	"sync/atomic"

	"github.com/standardbeagle/watchstats/internal/scan"
)

// FileState is the per-path tailing cursor: the offset already processed,
// the scanner's carryover buffer for a line split across reads, and the
// flags a coordinator worker uses to serialize and coalesce work on this
// path. Gate guards Offset, Carry, and Ino; it is held for the whole of a
// process_once call and never across a bus operation.
type FileState struct {
	Gate sync.Mutex

	Offset int64
	Carry  *scan.Carry
	Ino    uint64

	generation uint64

	dirty         atomic.Bool
	deletePending atomic.Bool
}

func newFileState(generation uint64) *FileState {
	return &FileState{
		Carry:      &scan.Carry{},
		generation: generation,
	}
}

// Generation identifies which incarnation of this path this state belongs
// to. A worker that captured a FileState before a delete/recreate race can
// compare this against the registry's current epoch for the path to detect
// that its work is now obsolete.
func (s *FileState) Generation() uint64 {
	return s.generation
}

// MarkDirty flags the state as having unprocessed appended data.
func (s *FileState) MarkDirty() {
	s.dirty.Store(true)
}

// ClearDirtyIfSet atomically clears the dirty flag and reports whether it
// was set, for the coordinator's "while dirty { clear; process }" loop.
func (s *FileState) ClearDirtyIfSet() bool {
	return s.dirty.Swap(false)
}

// MarkDeletePending flags the path as slated for removal once the holder of
// Gate finishes its current work.
func (s *FileState) MarkDeletePending() {
	s.deletePending.Store(true)
}

// IsDeletePending reports whether the path has been marked for removal.
func (s *FileState) IsDeletePending() bool {
	return s.deletePending.Load()
}

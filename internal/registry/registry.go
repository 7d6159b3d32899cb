// Package registry tracks per-path FileState across the lifetime of a watch
// session, sharded by path hash so concurrent workers rarely contend on the
// same lock.
package registry

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// shardCount must be a power of two so shardFor can mask instead of mod.
const shardCount = 64

type shard struct {
	mu     sync.Mutex
	states map[string]*FileState
	// epochs survives FinalizeDelete so a later GetOrCreate for the same
	// path can hand out a generation strictly greater than any worker
	// still holding a reference to the deleted state.
	epochs map[string]uint64
}

// Registry is the File State & Registry component: a concurrent path →
// FileState map with epoch tracking for delete/recreate races.
type Registry struct {
	shards [shardCount]*shard
}

// New creates an empty registry.
func New() *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i] = &shard{
			states: make(map[string]*FileState),
			epochs: make(map[string]uint64),
		}
	}
	return r
}

func (r *Registry) shardFor(path string) *shard {
	h := xxhash.Sum64String(path)
	return r.shards[h&(shardCount-1)]
}

// GetOrCreate returns the FileState for path, creating one if absent.
// Concurrent first-creation calls all observe the same instance. The
// returned bool reports whether this call created the state.
func (r *Registry) GetOrCreate(path string) (*FileState, bool) {
	sh := r.shardFor(path)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if st, ok := sh.states[path]; ok {
		return st, false
	}
	generation := sh.epochs[path] + 1
	st := newFileState(generation)
	sh.states[path] = st
	return st, true
}

// TryGet looks up an existing FileState without creating one.
func (r *Registry) TryGet(path string) (*FileState, bool) {
	sh := r.shardFor(path)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	st, ok := sh.states[path]
	return st, ok
}

// FinalizeDelete removes the entry for path and bumps its epoch, so a
// subsequent GetOrCreate for the same path produces a FileState whose
// Generation() is strictly greater than any previously issued for it.
func (r *Registry) FinalizeDelete(path string) {
	sh := r.shardFor(path)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.states, path)
	sh.epochs[path]++
}

// Epoch reports the current epoch recorded for path — the generation of
// the most recently finalized-deleted state, or 0 if path was never
// finalized. A worker holding a FileState compares Epoch(path)+1 against
// its own Generation() to detect it captured a now-obsolete state.
func (r *Registry) Epoch(path string) uint64 {
	sh := r.shardFor(path)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.epochs[path]
}

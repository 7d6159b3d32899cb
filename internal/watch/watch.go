// Package watch adapts fsnotify's recursive directory notifications into
// the event.FsEvent records the bounded bus carries, classifying each path
// as processable by extension/exclude glob before it ever reaches the bus.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/watchstats/internal/bus"
	"github.com/standardbeagle/watchstats/internal/debug"
	"github.com/standardbeagle/watchstats/internal/event"
)

// Matcher decides whether a path should be tailed: it must carry one of the
// configured extensions and must not match any exclude glob.
type Matcher struct {
	extensions []string
	exclude    []string
}

// NewMatcher builds a Matcher from config-supplied extension and exclude
// lists. Extensions are compared case-sensitively including the leading dot
// (".log", not "log").
func NewMatcher(extensions, exclude []string) *Matcher {
	return &Matcher{
		extensions: append([]string(nil), extensions...),
		exclude:    append([]string(nil), exclude...),
	}
}

// Processable reports whether path should be tailed.
func (m *Matcher) Processable(path string) bool {
	if !m.hasMatchingExtension(path) {
		return false
	}
	return !m.isExcluded(path)
}

func (m *Matcher) hasMatchingExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, want := range m.extensions {
		if ext == want {
			return true
		}
	}
	return false
}

func (m *Matcher) isExcluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range m.exclude {
		if matched, _ := doublestar.Match(pattern, slashed); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	return false
}

// Watcher recursively watches a root directory with fsnotify and publishes
// one event.FsEvent per filesystem change onto the bus, newly created
// subdirectories are watched as they appear.
type Watcher struct {
	fsw     *fsnotify.Watcher
	bus     *bus.Bus
	matcher *Matcher

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	visitedMu sync.Mutex
	visited   map[string]bool
}

// New creates a Watcher. Start(root) registers the recursive watches.
func New(b *bus.Bus, matcher *Matcher) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{fsw: fsw, bus: b, matcher: matcher, visited: make(map[string]bool)}, nil
}

// Start walks root adding a watch on every directory, then launches the
// event-processing goroutine.
func (w *Watcher) Start(root string) error {
	w.ctx, w.cancel = context.WithCancel(context.Background())

	if err := w.addWatches(root); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.processEvents()
	debug.LogWatch("watch started at %s", root)
	return nil
}

// Stop cancels the processing goroutine and closes the underlying fsnotify
// watcher, then waits for the goroutine to return.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addWatches(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			return nil
		}
		w.visitedMu.Lock()
		seen := w.visited[real]
		w.visited[real] = true
		w.visitedMu.Unlock()
		if seen {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			debug.LogWatch("failed to add watch for %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			debug.LogWatch("fsnotify error: %v", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	path := ev.Name
	now := time.Now()

	info, statErr := os.Stat(path)
	if statErr != nil {
		if ev.Op&fsnotify.Remove != 0 || ev.Op&fsnotify.Rename != 0 {
			w.publish(event.Deleted, path, "", now)
		}
		return
	}

	if info.IsDir() {
		if ev.Op&fsnotify.Create != 0 {
			if err := w.fsw.Add(path); err != nil {
				debug.LogWatch("failed to add watch for new directory %s: %v", path, err)
			}
		}
		return
	}

	switch {
	case ev.Op&fsnotify.Create != 0:
		w.publish(event.Created, path, "", now)
	case ev.Op&fsnotify.Write != 0:
		w.publish(event.Modified, path, "", now)
	case ev.Op&fsnotify.Remove != 0:
		w.publish(event.Deleted, path, "", now)
	case ev.Op&fsnotify.Rename != 0:
		w.publish(event.Deleted, path, "", now)
	}
}

func (w *Watcher) publish(kind event.Kind, path, oldPath string, ts time.Time) {
	w.bus.Publish(event.FsEvent{
		Kind:        kind,
		Path:        path,
		OldPath:     oldPath,
		Timestamp:   ts,
		Processable: w.matcher.Processable(path),
	})
}

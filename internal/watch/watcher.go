// Package watch turns a raw recursive filesystem watch into the
// normalized Changed/Deleted event stream broadcast to sessions. The
// watcher owns the known-files set exclusively and fans events out over
// a bounded bus; receivers treat events as hints and re-read file content
// from disk.
package watch

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher recursively watches a root directory and publishes normalized
// Changed/Deleted events to its Bus.
type Watcher struct {
	bus *Bus
	fsw *fsnotify.Watcher

	mu    sync.Mutex
	known map[string]struct{}

	done chan struct{}
}

// New creates a Watcher rooted at rootDir, seeding the known-files set
// from seedPaths (every file reachable under every channel's files and
// directories).
func New(rootDir string, seedPaths []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		bus:   NewBus(),
		fsw:   fsw,
		known: make(map[string]struct{}, len(seedPaths)),
		done:  make(chan struct{}),
	}
	for _, p := range seedPaths {
		w.known[p] = struct{}{}
	}

	if err := addRecursive(fsw, rootDir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Bus returns the broadcast bus sessions subscribe to.
func (w *Watcher) Bus() *Bus { return w.bus }

// addRecursive registers every directory under root (including root)
// with the fsnotify watcher; fsnotify only watches one level, so new
// subdirectories are picked up reactively in the run loop.
func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Race between walk and a concurrent delete; skip and continue.
			return nil
		}
		if info.IsDir() {
			if addErr := fsw.Add(path); addErr != nil {
				log.Printf("watch: failed to watch dir %s: %v", path, addErr)
			}
		}
		return nil
	})
}

// Start runs the translate loop in the background until Stop is called.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop closes the underlying fsnotify watcher and ends the loop.
func (w *Watcher) Stop() {
	close(w.done)
	_ = w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
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
			log.Printf("watch: fsnotify error: %v", err)
		}
	}
}

// handle translates one raw fsnotify event: a created regular file joins
// the known set and emits Changed, a write to a known file emits Changed,
// a remove/rename of a known file leaves the set and emits Deleted, and
// everything else is ignored.
func (w *Watcher) handle(ev fsnotify.Event) {
	switch {
	case ev.Has(fsnotify.Create):
		info, err := os.Stat(ev.Name)
		if err != nil {
			// Race between event and stat — drop the event, keep watching.
			return
		}
		if info.IsDir() {
			if addErr := w.fsw.Add(ev.Name); addErr != nil {
				log.Printf("watch: failed to watch new dir %s: %v", ev.Name, addErr)
			}
			return
		}
		w.mu.Lock()
		w.known[ev.Name] = struct{}{}
		w.mu.Unlock()
		w.bus.Publish(Event{Kind: Changed, Path: ev.Name})

	case ev.Has(fsnotify.Write):
		w.mu.Lock()
		_, isKnown := w.known[ev.Name]
		w.mu.Unlock()
		if !isKnown {
			return
		}
		w.bus.Publish(Event{Kind: Changed, Path: ev.Name})

	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.mu.Lock()
		_, isKnown := w.known[ev.Name]
		if isKnown {
			delete(w.known, ev.Name)
		}
		w.mu.Unlock()
		if !isKnown {
			return
		}
		w.bus.Publish(Event{Kind: Deleted, Path: ev.Name})
	}
}

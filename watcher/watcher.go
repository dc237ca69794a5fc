// Package watcher implements the background hot-reload path: it watches
// a data file's directory for writes/renames,
// confirms a real change via mtime, opens a replacement dataset off a
// private working copy, and publishes it behind an atomic pointer once
// the old dataset's in-flight matches have drained.
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/corvidlabs/uasig/entity"
	"github.com/corvidlabs/uasig/source"
)

// OpenFunc builds a fresh dataset from the data file at path. The watcher
// calls it once at Start and again after every confirmed change.
type OpenFunc func(path string) (*entity.Dataset, error)

// Watcher polls one data file's containing directory for changes and
// swaps a live *entity.Dataset pointer without ever blocking an in-flight
// Match call.
type Watcher struct {
	path     string
	interval time.Duration
	open     OpenFunc
	drainTTL time.Duration

	current  atomic.Pointer[entity.Dataset]
	fsw      *fsnotify.Watcher
	lastMod  time.Time
	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup

	mu       sync.Mutex
	watching bool
}

// New builds a Watcher over path. interval bounds how often a debounced
// fsnotify burst is allowed to trigger a reload (the provider passes
// Config.CacheServiceInterval); drainTTL bounds how long the swap waits for a
// superseded dataset's in-flight references to reach zero before
// disposing it anyway.
func New(path string, interval, drainTTL time.Duration, open OpenFunc) *Watcher {
	return &Watcher{
		path:     path,
		interval: interval,
		drainTTL: drainTTL,
		open:     open,
		done:     make(chan struct{}),
	}
}

// Start opens the initial dataset, publishes it, and begins watching the
// file's directory for subsequent changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	ds, err := w.open(w.path)
	if err != nil {
		return err
	}
	w.current.Store(ds)

	if info, statErr := os.Stat(w.path); statErr == nil {
		w.lastMod = info.ModTime()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()

	return nil
}

// Dataset returns the currently published dataset.
func (w *Watcher) Dataset() *entity.Dataset {
	return w.current.Load()
}

// Stop halts watching. The dataset most recently published remains live;
// callers still holding a reference to it may keep using it until they
// Release.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		if w.fsw != nil {
			w.fsw.Close()
		}
	})
	w.wg.Wait()

	w.mu.Lock()
	w.watching = false
	w.mu.Unlock()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	pending := false

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = true
			}

		case <-w.fsw.Errors:
			continue

		case <-ticker.C:
			if !pending {
				continue
			}
			pending = false
			w.reloadIfChanged()
		}
	}
}

func (w *Watcher) reloadIfChanged() {
	info, err := os.Stat(w.path)
	if err != nil {
		return
	}
	if !info.ModTime().After(w.lastMod) {
		return
	}
	w.lastMod = info.ModTime()

	next, err := w.openWorkingCopy()
	if err != nil {
		return
	}

	old := w.current.Swap(next)
	if old != nil {
		go w.drain(old)
	}
}

// openWorkingCopy copies the changed file into a private, uuid-suffixed
// working file in the same directory (source.NewTempFileSource) and opens
// the dataset from that copy rather than the live path, so a write landing
// mid-reload can never be read half-finished. The copy is removed once the
// new dataset has its own handle on the data (open has returned), whether
// that succeeded or not.
func (w *Watcher) openWorkingCopy() (*entity.Dataset, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, err
	}

	tmp, err := source.NewTempFileSource(filepath.Dir(w.path), data)
	if err != nil {
		return nil, err
	}
	defer tmp.Close()

	return w.open(tmp.Path())
}

// drain waits for a superseded dataset's in-flight matches to reach zero,
// then disposes it. It gives up and disposes anyway after drainTTL so a
// leaked reference never pins a dataset in memory forever.
func (w *Watcher) drain(ds *entity.Dataset) {
	deadline := time.Now().Add(w.drainTTL)
	for ds.InFlight() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	ds.Dispose()
}

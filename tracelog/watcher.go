package tracelog

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/hupe1980/agentbus/logging"
)

// Watcher keeps an in-memory index of the trace ids in a log directory,
// refreshed from filesystem notifications instead of listing the directory on
// every request. Reads are delegated to the underlying Dir.
type Watcher struct {
	*Dir

	logger  logging.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	mu     sync.RWMutex
	traces map[string]struct{}
}

// NewWatcher scans dir (which must exist) and starts watching it.
func NewWatcher(dir string, logger logging.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		Dir:     NewDir(dir),
		logger:  logging.OrNoOp(logger),
		watcher: fw,
		done:    make(chan struct{}),
		traces:  make(map[string]struct{}),
	}

	// Scanned after Add, so no file created in between is lost.
	ids, err := w.Dir.Traces()
	if err != nil {
		_ = fw.Close()
		return nil, err
	}
	for _, id := range ids {
		w.traces[id] = struct{}{}
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Traces returns the indexed trace ids in sorted order.
func (w *Watcher) Traces() ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]string, 0, len(w.traces))
	for id := range w.traces {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close stops watching the directory.
func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("trace log watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	id, ok := traceIDFromName(filepath.Base(ev.Name))
	if !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		w.traces[id] = struct{}{}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		delete(w.traces, id)
	}
}

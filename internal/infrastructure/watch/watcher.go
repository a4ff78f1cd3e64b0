// Package watch notices workspace file changes for the live screens.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls back when one of the tracked workspace files changes.
// Saves go through a temp file plus a rename, so a single save throws a
// burst of events; the debounce window folds each burst into one call.
type Watcher struct {
	dir      string
	files    map[string]bool
	window   time.Duration
	onChange func(string)

	mu    sync.Mutex
	timer *time.Timer
	last  string
}

// New builds a watcher for the named files inside dir. Files are plain
// names like "results.json", not paths. A zero window defaults to 250ms.
func New(dir string, files []string, window time.Duration, onChange func(string)) *Watcher {
	if window == 0 {
		window = 250 * time.Millisecond
	}
	tracked := make(map[string]bool, len(files))
	for _, f := range files {
		tracked[f] = true
	}
	return &Watcher{dir: dir, files: tracked, window: window, onChange: onChange}
}

// Run watches the directory until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.bump(filepath.Base(event.Name))
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// relevant reports whether the event touches a tracked file with an op
// that changes content. Rename matters because atomic saves land as a
// rename onto the final path.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) &&
		!event.Op.Has(fsnotify.Rename) && !event.Op.Has(fsnotify.Remove) {
		return false
	}
	return w.files[filepath.Base(event.Name)]
}

func (w *Watcher) bump(file string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.last = file
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.window, func() {
		w.mu.Lock()
		changed := w.last
		w.mu.Unlock()
		if w.onChange != nil {
			w.onChange(changed)
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

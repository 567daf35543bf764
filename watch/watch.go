// Package watch reports changes to a set of files, debounced, so a running
// scene can reload its configuration or source image.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce is the minimum interval between two reports for the same file.
const Debounce = 100 * time.Millisecond

// Watcher watches individual files. Editors often replace files instead of
// writing them in place, so the parent directories are watched and events
// are filtered by path.
type Watcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	// Events receives the cleaned path of each changed file.
	Events chan string
	// Errors receives watcher errors.
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

// New starts watching files. Empty paths are ignored.
func New(files ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watch: %s: %w", f, err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watch: %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	watcher := &Watcher{
		watcher: w,
		files:   watched,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and closes Events and Errors.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Events)
	defer close(w.Errors)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name, ok := w.relevant(event, last, time.Now())
			if !ok {
				continue
			}
			select {
			case w.Events <- name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// relevant filters an fsnotify event down to watched files and drops repeats
// within Debounce.
func (w *Watcher) relevant(event fsnotify.Event, last map[string]time.Time, now time.Time) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return "", false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil || !w.files[name] {
		return "", false
	}
	if t, ok := last[name]; ok && now.Sub(t) < Debounce {
		return "", false
	}
	last[name] = now
	return name, true
}

// Drain returns every change already queued without blocking, with
// duplicates removed.
func (w *Watcher) Drain() []string {
	var out []string
	seen := make(map[string]bool)
	for {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return out
			}
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		default:
			return out
		}
	}
}

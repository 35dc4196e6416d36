// Package watch signals when watched files change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of events such as editor save sequences.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors files and directories for changes.
//
// Files are watched through their parent directory so that editors which
// replace a file by rename keep triggering events.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	match     func(path string) bool
	files     map[string]bool // cleaned file paths watched individually
	dirs      map[string]bool // directories watched in full
	events    chan struct{}
	debounce  time.Duration
	stop      chan struct{}
	stopOnce  sync.Once

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is signaled.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithMatch limits events under watched directories to paths accepted by fn.
// Individually watched files always match.
func WithMatch(fn func(path string) bool) Option {
	return func(w *Watcher) {
		w.match = fn
	}
}

// New watches each path. A path that does not exist yet is watched through its
// parent directory, which must exist.
func New(paths []string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsw,
		files:     make(map[string]bool),
		dirs:      make(map[string]bool),
		events:    make(chan struct{}, 1),
		debounce:  DefaultDebounce,
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, p := range paths {
		if err := w.add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	path = filepath.Clean(path)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		w.dirs[path] = true
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	}

	w.files[path] = true
	dir := filepath.Dir(path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

// relevant reports whether an event for name should trigger a signal.
func (w *Watcher) relevant(name string) bool {
	name = filepath.Clean(name)
	if w.files[name] {
		return true
	}
	if !w.dirs[filepath.Dir(name)] {
		return false
	}
	return w.match == nil || w.match(name)
}

// Events returns a channel that signals when watched files change. It is
// closed when Run returns.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Run processes file system events until ctx is done or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		w.closed = true
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		_ = w.fsWatcher.Close()
		close(w.events)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.stop:
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod || !w.relevant(event.Name) {
				continue
			}
			w.schedule()
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		if w.closed {
			return
		}
		select {
		case w.events <- struct{}{}:
		default: // a signal is already pending
		}
	})
}

// Close stops Run. It is safe to call more than once.
func (w *Watcher) Close() {
	w.stopOnce.Do(func() { close(w.stop) })
}

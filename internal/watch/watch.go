// Package watch reports changes to build inputs so a build can be re-run.
package watch

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before a batch is emitted.
const DefaultDebounce = 250 * time.Millisecond

// Watcher monitors input files and directories using fsnotify and emits one batch of
// changed paths per burst of events.
//
// Files are watched through their parent directory, so editors that replace a file by
// rename are seen. Hidden files (names starting with a dot) are ignored, which also
// covers the temporary files outputs are written through.
type Watcher struct {
	Changes <-chan []string // read-only external channel

	changes  chan []string
	quit     chan struct{}
	done     chan struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
	stopOnce sync.Once

	mu      sync.Mutex
	started bool
	stopped bool
	files   map[string]struct{}
	dirs    map[string]struct{}
	ignored map[string]struct{}
}

// New creates a Watcher. A non-positive debounce selects DefaultDebounce.
func New(debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ch := make(chan []string, 1)

	return &Watcher{
		Changes:  ch,
		changes:  ch,
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
		debounce: debounce,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
		ignored:  make(map[string]struct{}),
	}, nil
}

// AddFile watches a single file.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	w.mu.Lock()
	w.files[abs] = struct{}{}
	w.mu.Unlock()

	return nil
}

// AddDir watches every file directly inside dir.
func (w *Watcher) AddDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := w.watcher.Add(abs); err != nil {
		return err
	}

	w.mu.Lock()
	w.dirs[abs] = struct{}{}
	w.mu.Unlock()

	return nil
}

// Ignore excludes path from triggering changes, typically a build output that lives
// next to its inputs.
func (w *Watcher) Ignore(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	w.ignored[abs] = struct{}{}
	w.mu.Unlock()
}

// Start begins watching. Calls after the first, or after Stop, do nothing.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started || w.stopped {
		return
	}
	w.started = true
	go w.loop()
}

// Stop closes the watcher and the Changes channel. It may be called more than once, and
// without a prior Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		started := w.started
		w.mu.Unlock()

		close(w.quit)
		_ = w.watcher.Close()
		if started {
			<-w.done
		}
		close(w.changes)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]struct{})
	var last time.Time
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.quit:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			pending[filepath.Clean(event.Name)] = struct{}{}
			last = time.Now()

		case <-ticker.C:
			if len(pending) == 0 || time.Since(last) < w.debounce {
				continue
			}

			batch := make([]string, 0, len(pending))
			for path := range pending {
				batch = append(batch, path)
			}
			slices.Sort(batch)
			clear(pending)

			select {
			case w.changes <- batch:
			case <-w.quit:
				return
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// watch errors are not fatal
		}
	}
}

func (w *Watcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if strings.HasPrefix(filepath.Base(abs), ".") {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.ignored[abs]; ok {
		return false
	}
	if _, ok := w.files[abs]; ok {
		return true
	}
	_, ok := w.dirs[filepath.Dir(abs)]

	return ok
}

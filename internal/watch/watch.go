// Package watch monitors a search root and coalesces file changes into
// rerun signals.
package watch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/sgrep/internal/debug"
)

// Options configures a watcher.
type Options struct {
	// Debounce batches a burst of events into one signal.
	Debounce time.Duration
	// Extensions limits triggering to files with these extensions
	// (".rs"). Empty means any file triggers.
	Extensions []string
	// Excludes are doublestar globs for directories never watched.
	Excludes []string
}

// Watcher owns an fsnotify watcher plus the debounce state. Signals are
// coalesced: while one rerun signal is pending, further flushes fold
// into it.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	debounce time.Duration
	exts     map[string]bool
	excludes []string

	changes chan struct{}

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a watcher over root and registers watches on every
// directory under it that is not excluded.
func New(root string, opts Options) (*Watcher, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	exts := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		exts[ext] = true
	}

	w := &Watcher{
		fsw:      fsw,
		root:     root,
		debounce: opts.Debounce,
		exts:     exts,
		excludes: opts.Excludes,
		changes:  make(chan struct{}, 1),
		pending:  make(map[string]struct{}),
	}

	if err := w.addWatches(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Changes delivers one signal per debounced batch of relevant events.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Start launches the event loop. Stop tears it down.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.processEvents(ctx)
}

// Stop cancels the loop, closes the underlying watcher and waits for the
// event goroutine. Pending debounced events are dropped.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.fsw.Close()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// addWatches walks root registering every directory, with an
// EvalSymlinks visited set guarding against symlink cycles.
func (w *Watcher) addWatches(root string) error {
	visited := make(map[string]bool)

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
		if visited[real] {
			return filepath.SkipDir
		}
		visited[real] = true

		if path != root && w.ignoredDir(path) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			debug.LogWatch("failed to watch %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) ignoredDir(path string) bool {
	rel := path
	if r, err := filepath.Rel(w.root, path); err == nil {
		rel = filepath.ToSlash(r)
	}
	if base := filepath.Base(path); strings.HasPrefix(base, ".") {
		return true
	}
	for _, pattern := range w.excludes {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, rel+"/"); err == nil && ok {
			return true
		}
	}
	return false
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Overflow and watch-limit errors matter to the user even
			// outside debug runs.
			log.Printf("WARNING: watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	debug.LogWatch("event %v for %s", event.Op, path)

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		// Watch newly created directories so files inside them trigger
		// reruns too.
		if event.Op&fsnotify.Create != 0 && !w.ignoredDir(path) {
			if err := w.fsw.Add(path); err != nil {
				debug.LogWatch("failed to watch new dir %s: %v", path, err)
			}
		}
		return
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if len(w.exts) > 0 && !w.exts[strings.ToLower(filepath.Ext(path))] {
		return
	}

	w.addPending(path)
}

func (w *Watcher) addPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

// flush runs on the timer goroutine. The non-blocking send coalesces
// with any signal the consumer has not picked up yet.
func (w *Watcher) flush() {
	w.mu.Lock()
	count := len(w.pending)
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if count == 0 {
		return
	}
	debug.LogWatch("flushing %d debounced changes", count)

	select {
	case w.changes <- struct{}{}:
	default:
	}
}

//go:build leaktests
// +build leaktests

package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/standardbeagle/sgrep/internal/watch"
)

// TestWatcherLeavesNoGoroutines verifies Stop tears down the event loop,
// the fsnotify reader and any armed debounce timer.
func TestWatcherLeavesNoGoroutines(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	file := filepath.Join(dir, "main.rs")
	if err := os.WriteFile(file, []byte("fn main() {}\n"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	w, err := watch.New(dir, watch.Options{
		Debounce:   20 * time.Millisecond,
		Extensions: []string{".rs"},
	})
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	w.Start(context.Background())

	// Trigger one full signal cycle before teardown.
	if err := os.WriteFile(file, []byte("fn main() { run(); }\n"), 0644); err != nil {
		t.Fatalf("Failed to rewrite fixture: %v", err)
	}
	select {
	case <-w.Changes():
	case <-time.After(3 * time.Second):
		t.Fatal("No change signal before teardown")
	}

	w.Stop()
}

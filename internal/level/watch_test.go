package level_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/pedalrun/internal/level"
)

func newTestWatcher(t *testing.T) (*level.Watcher, string) {
	t.Helper()
	dir := t.TempDir()
	w, err := level.NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w, dir
}

func writeFile(t *testing.T, path, text string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

// expectNoEvent fails if a level change arrives within d.
func expectNoEvent(t *testing.T, w *level.Watcher, d time.Duration) {
	t.Helper()
	select {
	case n := <-w.Events:
		t.Fatalf("Expected no event, got level %d", n)
	case <-time.After(d):
	}
}

func TestWatcherReportsLevelWrite(t *testing.T) {
	w, dir := newTestWatcher(t)

	writeFile(t, filepath.Join(dir, "level2.txt"), "5 0 4\n1 1 1")

	select {
	case n := <-w.Events:
		if n != 2 {
			t.Errorf("Expected level 2, got %d", n)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a change event for level2.txt")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	w, dir := newTestWatcher(t)

	writeFile(t, filepath.Join(dir, "notes.txt"), "not a level")
	writeFile(t, filepath.Join(dir, "level2.txt.bak"), "5 0 4\n1 1 1")

	expectNoEvent(t, w, 500*time.Millisecond)
}

func TestWatcherReportsBurstOnceAfterItSettles(t *testing.T) {
	w, dir := newTestWatcher(t)
	path := filepath.Join(dir, "level3.txt")

	// Truncate then write, as editors save
	writeFile(t, path, "")
	time.Sleep(20 * time.Millisecond)
	writeFile(t, path, "5 0 4\n1 1 1")

	select {
	case n := <-w.Events:
		if n != 3 {
			t.Fatalf("Expected level 3, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a change event after the burst")
	}

	// The event must come after the last write, so the file holds its content
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "5 0 4\n1 1 1" {
		t.Errorf("Expected final content when the event arrives, got %q", data)
	}

	expectNoEvent(t, w, 300*time.Millisecond)
}

func TestWatcherCloseReleasesReceivers(t *testing.T) {
	w, _ := newTestWatcher(t)

	released := make(chan struct{})
	go func() {
		defer close(released)
		select {
		case <-w.Events:
		case <-w.Errors:
		}
	}()

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("Expected receiver to be released by Close")
	}

	if _, ok := <-w.Events; ok {
		t.Error("Expected Events to be closed")
	}
	if _, ok := <-w.Errors; ok {
		t.Error("Expected Errors to be closed")
	}

	// Second Close is a no-op
	_ = w.Close()
}

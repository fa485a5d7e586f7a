package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherInvokesCallback(t *testing.T) {
	dir := t.TempDir()
	paths := make(chan string, 4)

	w := New([]string{dir}, func(path string) { paths <- path }, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	batch := filepath.Join(dir, "batch.json")
	if err := os.WriteFile(batch, []byte(`[{"filename": "a.pdf"}]`), 0644); err != nil {
		t.Fatalf("write batch file: %v", err)
	}

	select {
	case got := <-paths:
		if got != batch {
			t.Errorf("callback path = %q, want %q", got, batch)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("callback not invoked for new batch file")
	}
}

func TestWatcherIgnoresNonJSON(t *testing.T) {
	dir := t.TempDir()
	paths := make(chan string, 4)

	w := New([]string{dir}, func(path string) { paths <- path }, WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	select {
	case got := <-paths:
		t.Errorf("callback invoked for non-json file %q", got)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcherDebouncesRepeatedWrites(t *testing.T) {
	dir := t.TempDir()
	paths := make(chan string, 16)

	w := New([]string{dir}, func(path string) { paths <- path }, WithDebounce(200*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	batch := filepath.Join(dir, "batch.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(batch, []byte(`[{"filename": "a.pdf"}]`), 0644); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	deadline := time.After(3 * time.Second)
	count := 0
	for count == 0 {
		select {
		case <-paths:
			count++
		case <-deadline:
			t.Fatal("no callback after repeated writes")
		}
	}
	// Allow the settle window to pass, then confirm the writes collapsed.
	time.Sleep(400 * time.Millisecond)
	count += len(paths)
	if count > 2 {
		t.Errorf("callback invoked %d times for one settling file, want 1 (2 tolerated)", count)
	}
}

func TestWatcherStartMissingDirectory(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, func(string) {})
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("Start on missing directory should fail")
	}
}

func TestWatcherStopIdempotent(t *testing.T) {
	dir := t.TempDir()
	w := New([]string{dir}, func(string) {})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	w.Stop()
	w.Stop()
}

package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mason/internal/adapters/watcher"
	"go.trai.ch/mason/internal/core/ports"
)

const eventTimeout = 2 * time.Second

// collectEvents drains the watcher's iterator into a channel so tests can
// select on it with a timeout.
func collectEvents(w *watcher.Watcher) <-chan ports.WatchEvent {
	events := make(chan ports.WatchEvent, 100)
	go func() {
		defer close(events)
		for event := range w.Events() {
			events <- event
		}
	}()
	return events
}

func TestNewWatcher(t *testing.T) {
	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	require.NotNil(t, w)

	require.NoError(t, w.Stop())
}

func TestWatcher_StartMissingRoots(t *testing.T) {
	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sources of never-built targets may not exist yet.
	err = w.Start(ctx, []string{"/nonexistent/api", "/nonexistent/web"})
	assert.NoError(t, err)
}

func TestWatcher_FileRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "Cargo.toml")
	require.NoError(t, os.WriteFile(file, []byte("[package]\n"), 0o644))

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, []string{file}))
	events := collectEvents(w)

	require.NoError(t, os.WriteFile(file, []byte("[package]\nname = \"api\"\n"), 0o644))

	select {
	case event := <-events:
		assert.Equal(t, file, event.Path)
	case <-time.After(eventTimeout):
		t.Fatal("timed out waiting for file event")
	}
}

func TestWatcher_EventDelivery(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, []string{dir}))
	events := collectEvents(w)

	file := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(file, []byte("fn main() {}\n"), 0o644))

	select {
	case event := <-events:
		assert.Equal(t, file, event.Path)
		assert.Contains(t, []ports.WatchOp{ports.OpCreate, ports.OpWrite}, event.Operation)
	case <-time.After(eventTimeout):
		t.Fatal("timed out waiting for file event")
	}
}

func TestWatcher_NewDirectoryIsWatched(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, []string{dir}))
	events := collectEvents(w)

	// Create a subdirectory after the watch started, give the watcher time
	// to pick it up, then write into it.
	sub := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(200 * time.Millisecond)

	file := filepath.Join(sub, "lib.rs")
	require.NoError(t, os.WriteFile(file, []byte("pub fn run() {}\n"), 0o644))

	deadline := time.After(eventTimeout)
	for {
		select {
		case event := <-events:
			if event.Path == file {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for event from new subdirectory")
		}
	}
}

func TestWatcher_SkipsIgnoredDirectories(t *testing.T) {
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	require.NoError(t, os.Mkdir(gitDir, 0o755))

	w, err := watcher.NewWatcher()
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, []string{dir}))
	events := collectEvents(w)

	// Write inside .git first, then in the root. Only the root write may
	// surface; anything under .git arriving before it is a watch leak.
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644))
	rootFile := filepath.Join(dir, "main.rs")
	require.NoError(t, os.WriteFile(rootFile, []byte("fn main() {}\n"), 0o644))

	deadline := time.After(eventTimeout)
	for {
		select {
		case event := <-events:
			require.NotContains(t, event.Path, ".git")
			if event.Path == rootFile {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for root file event")
		}
	}
}

func TestWatcher_StopEndsIterator(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.NewWatcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx, []string{dir}))
	events := collectEvents(w)

	require.NoError(t, w.Stop())

	select {
	case _, ok := <-events:
		if ok {
			// Drain any buffered event; the channel must close soon after.
			for range events {
				continue
			}
		}
	case <-time.After(eventTimeout):
		t.Fatal("iterator did not end after Stop")
	}
}

package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/gantry/internal/model"
	"github.com/zjrosen/gantry/internal/watcher"
)

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	partsPath := filepath.Join(dir, model.PartsFile)
	err := os.WriteFile(partsPath, []byte("parts: []\n"), 0644)
	require.NoError(t, err, "failed to create parts file")

	w, err := watcher.New(watcher.Config{
		Dir:         dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		err := os.WriteFile(partsPath, []byte(fmt.Sprintf("parts: [] # %d\n", i)), 0644)
		require.NoError(t, err, "failed to write file")
		time.Sleep(10 * time.Millisecond)
	}

	// Should receive exactly one notification
	select {
	case <-onChange:
		// Expected
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	// No second notification should come quickly
	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
		// Expected - no second notification
	}
}

func TestWatcher_IgnoresIrrelevantFiles(t *testing.T) {
	dir := t.TempDir()
	otherPath := filepath.Join(dir, "notes.txt")
	// Pre-create the other file so writes to it are just Write events
	err := os.WriteFile(otherPath, []byte("initial"), 0644)
	require.NoError(t, err, "failed to create other file")

	w, err := watcher.New(watcher.Config{
		Dir:         dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	err = os.WriteFile(otherPath, []byte("other content"), 0644)
	require.NoError(t, err, "failed to write other file")

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(100 * time.Millisecond):
		// Expected - no notification for unrelated file
	}
}

func TestWatcher_SeesAtomicReplaces(t *testing.T) {
	dir := t.TempDir()
	machinePath := filepath.Join(dir, model.MachineFile)
	err := os.WriteFile(machinePath, []byte("machine:\n  type: simulated\n"), 0644)
	require.NoError(t, err, "failed to create machine file")

	w, err := watcher.New(watcher.Config{
		Dir:         dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Simulate an atomic save: write a temp file, rename onto the target
	tempPath := filepath.Join(dir, ".machine.yaml.tmp.1")
	err = os.WriteFile(tempPath, []byte("machine:\n  type: simulated\n  feed-rate: 100\n"), 0644)
	require.NoError(t, err, "failed to write temp file")
	require.NoError(t, os.Rename(tempPath, machinePath))

	select {
	case <-onChange:
		// Expected - rename onto a catalog name surfaces as Create
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected notification for atomic replace")
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.New(watcher.Config{
		Dir:         dir,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Stop should not hang or panic
	done := make(chan struct{})
	go func() {
		err := w.Stop()
		assert.NoError(t, err, "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
		// Expected - stop completed successfully
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/machines/line-1")

	assert.Equal(t, "/machines/line-1", cfg.Dir)
	assert.Equal(t, 250*time.Millisecond, cfg.DebounceDur)
}

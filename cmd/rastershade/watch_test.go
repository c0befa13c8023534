package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestTouches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layer.yaml")
	tests := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		if got := touches(tt.ev, path); got != tt.want {
			t.Errorf("touches(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestWatchConfigRerenders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layer.yaml")
	if err := os.WriteFile(path, []byte("ranges: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	rendered := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- watchConfig(ctx, path, func(context.Context) error {
			rendered <- struct{}{}
			return nil
		})
	}()

	// Keep writing until the watcher is up and reports a change.
	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(5 * time.Second)
	for waiting := true; waiting; {
		select {
		case <-rendered:
			waiting = false
		case <-tick.C:
			if err := os.WriteFile(path, []byte("ranges: []\n"), 0o600); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no re-render after writing the config")
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("watchConfig = %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settleDelay batches the bursts of events editors emit for one save.
const settleDelay = 100 * time.Millisecond

// watchConfig calls render each time the file at path is written or
// replaced, until ctx is done. The parent directory is watched so that
// editors which save by renaming a temporary file are seen too.
func watchConfig(ctx context.Context, path string, render func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	log.Printf("watching %s", path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !touches(ev, abs) {
				continue
			}
			pending = time.After(settleDelay)
		case <-pending:
			pending = nil
			if err := render(ctx); err != nil {
				log.Printf("re-render: %v", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)
		}
	}
}

// touches reports whether ev changed the content at path.
func touches(ev fsnotify.Event, path string) bool {
	name, err := filepath.Abs(ev.Name)
	if err != nil || name != path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Package watcher reruns a callback whenever any of a set of files
// changes, debouncing bursts of events so that an editor's
// write-rename-chmod sequence triggers a single regeneration.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for events to settle
// before firing.
const DefaultDebounce = 100 * time.Millisecond

// Watch blocks, invoking onChange after file events settle, until ctx
// is cancelled. Paths are re-registered after each firing because many
// editors replace files on save, which drops the watch.
func Watch(ctx context.Context, paths []string, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer w.Close()

	addAll := func() error {
		for _, path := range paths {
			if err := w.Add(path); err != nil {
				return fmt.Errorf("watcher: failed to watch %s: %w", path, err)
			}
		}
		return nil
	}
	if err := addAll(); err != nil {
		return err
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				timer.Reset(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher: %w", err)
		case <-timer.C:
			onChange()
			// Best effort: paths replaced on save need re-adding.
			for _, path := range paths {
				_ = w.Add(path)
			}
		}
	}
}

package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

// watchFile calls onChange after path is written, created or replaced, until
// ctx is done. Bursts of events are coalesced.
//
// The parent directory is watched rather than the file so editors that save
// by renaming a temp file over it are still picked up.
func watchFile(ctx context.Context, path string, onChange func()) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	changes := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	var debounceMutex sync.Mutex
	trigger := func() {
		debounceMutex.Lock()
		defer debounceMutex.Unlock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(debounceDelay, func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		debounceMutex.Lock()
		defer debounceMutex.Unlock()
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				trigger()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			_, _ = fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		case <-changes:
			onChange()
		}
	}
}

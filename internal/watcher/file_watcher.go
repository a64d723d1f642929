// Package watcher reports edits to the config file.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lance13c/vimnav/internal/logging"
)

// DefaultDebounce is how long a file must stay quiet before a change is reported
const DefaultDebounce = 300 * time.Millisecond

// FileWatcher calls back once per burst of writes to one file
type FileWatcher struct {
	path     string
	debounce time.Duration
	watcher  *fsnotify.Watcher

	mu         sync.Mutex
	isWatching bool
	pending    time.Time

	onChange func(path string)
}

// NewFileWatcher creates a watcher for path. The parent directory is watched
// so editors that replace the file on save are still seen.
func NewFileWatcher(path string, debounce time.Duration, onChange func(path string)) (*FileWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		path:     abs,
		debounce: debounce,
		watcher:  w,
		onChange: onChange,
	}, nil
}

// Start watches until ctx is done or Stop is called
func (fw *FileWatcher) Start(ctx context.Context) error {
	fw.mu.Lock()
	if fw.isWatching {
		fw.mu.Unlock()
		return fmt.Errorf("watcher is already running")
	}
	fw.isWatching = true
	fw.mu.Unlock()

	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		fw.Stop()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(fw.path), err)
	}

	ticker := time.NewTicker(fw.debounce / 2)
	defer ticker.Stop()

	logging.Debug("Watching %s (debounce %s)", fw.path, fw.debounce)

	for {
		select {
		case <-ctx.Done():
			fw.Stop()
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if fw.shouldIgnoreEvent(event) {
				continue
			}
			fw.mu.Lock()
			fw.pending = time.Now()
			fw.mu.Unlock()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("File watcher error: %v", err)

		case <-ticker.C:
			fw.flush()
		}
	}
}

// Stop closes the watcher
func (fw *FileWatcher) Stop() {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.isWatching {
		fw.watcher.Close()
		fw.isWatching = false
		logging.Debug("Stopped watching %s", fw.path)
	}
}

// IsWatching returns true if the watcher is currently active
func (fw *FileWatcher) IsWatching() bool {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.isWatching
}

// shouldIgnoreEvent keeps writes and creations of the watched file
func (fw *FileWatcher) shouldIgnoreEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return true
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return true
	}
	return name != fw.path
}

// flush reports a change once the file has been quiet for the debounce period
func (fw *FileWatcher) flush() {
	fw.mu.Lock()
	if fw.pending.IsZero() || time.Since(fw.pending) < fw.debounce {
		fw.mu.Unlock()
		return
	}
	fw.pending = time.Time{}
	fw.mu.Unlock()

	logging.Info("Detected change in %s", fw.path)
	if fw.onChange != nil {
		fw.onChange(fw.path)
	}
}

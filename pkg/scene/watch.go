package scene

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/taigrr/softrast/pkg/logging"
)

// watchDebounce collapses the burst of events one save produces.
const watchDebounce = 100 * time.Millisecond

// WatchFile calls onChange after path is written, created or replaced. It
// watches the containing directory so editors that save by rename are
// seen. WatchFile blocks until ctx is done.
func WatchFile(ctx context.Context, path string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != abs {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				timer.Reset(watchDebounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.LogError("watch %s: %v", path, err)

		case <-timer.C:
			logging.LogDebug("scene file changed: %s", path)
			onChange()
		}
	}
}

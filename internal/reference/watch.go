package reference

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/KEIAN12/gamagori-shigikai/internal/logger"
)

// Watch reloads the glossary whenever the file is rewritten on disk, so a
// vocabulary update does not require a restart. Blocks until ctx is done.
func (l *Library) Watch(ctx context.Context, log logger.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file atomically, which
	// drops a watch registered on the file itself.
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		return fmt.Errorf("add watch path: %w", err)
	}

	log.Info(ctx, "Reference watcher started: %s", l.path)

	for {
		select {
		case <-ctx.Done():
			log.Info(ctx, "Reference watcher stopped")
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != filepath.Clean(l.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := l.Reload(); err != nil {
				log.Error(ctx, "Failed to reload reference data: %v", err)
				continue
			}
			log.Info(ctx, "Reference data reloaded: %s", l.path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			log.Error(ctx, "Watcher error: %v", err)
		}
	}
}

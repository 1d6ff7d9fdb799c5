package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/doodlesbykumbi/helpdesk-in-go/pkg/mockdb"
)

// Watch reapplies the seed file at path to store each time it is written,
// until ctx is cancelled. A file that fails to load leaves the store as it
// was.
func Watch(ctx context.Context, store *mockdb.Store, path string, now func() time.Time) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("seed: create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("seed: watch %s: %w", path, err)
	}

	slog.Info("watching seed file", "path", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := Apply(store, path, now()); err != nil {
				slog.Error("reloading seed file", "path", path, "error", err)
				continue
			}
			slog.Info("seed file reloaded", "path", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("seed watcher error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}

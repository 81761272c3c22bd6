// Package watch refreshes the store as soon as the timing software
// rewrites the database file. The per-query modification-time policy stays
// authoritative; the watcher only shortens the window in which queries
// would still serve the previous export.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/dvoa-timing/runnerdb/internal/runnerdb"
)

type Watcher struct {
	store *runnerdb.Store
	log   *slog.Logger
}

func New(store *runnerdb.Store, log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{store: store, log: log}
}

// Run watches the directory of the currently resolved database file until
// ctx is cancelled. The directory is watched rather than the file itself
// because the timing software replaces the file wholesale on export.
func (w *Watcher) Run(ctx context.Context) error {
	path, err := w.store.Resolver().Resolve()
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(path)); err != nil {
		return err
	}
	base := filepath.Base(path)

	w.log.Info("watching database file", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("database file changed", "op", ev.Op.String())
			if err := w.store.Refresh(); err != nil {
				w.log.Warn("refresh after file change failed", "error", err)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

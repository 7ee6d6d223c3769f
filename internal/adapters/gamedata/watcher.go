package gamedata

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/craftplan/craftplan-go/internal/application/common"
)

// reloadQuiet is how long the watcher waits after the last file event
// before reloading. Editors and sync tools write data files in bursts;
// one reload per burst is enough.
const reloadQuiet = 500 * time.Millisecond

// Watcher reloads the catalog store when files in the data directory
// change. Reloading swaps the catalog wholesale and fires the store's
// invalidators, exactly like a manual reload.
type Watcher struct {
	store   *Store
	dir     string
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher over the store's data directory
func NewWatcher(store *Store, dir string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return &Watcher{
		store:   store,
		dir:     dir,
		watcher: fsWatcher,
	}, nil
}

// Run blocks processing file events until the context is cancelled
func (w *Watcher) Run(ctx context.Context) {
	logger := common.LoggerFromContext(ctx)

	var quiet *time.Timer
	reload := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isDataFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// Coalesce the burst: (re)arm the quiet timer
			if quiet == nil {
				quiet = time.AfterFunc(reloadQuiet, func() {
					select {
					case reload <- struct{}{}:
					default:
					}
				})
			} else {
				quiet.Reset(reloadQuiet)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Log("warn", "catalog watcher error", map[string]interface{}{
				"error": err.Error(),
			})

		case <-reload:
			if err := w.store.Load(); err != nil {
				logger.Log("error", "catalog reload failed", map[string]interface{}{
					"dir":   w.dir,
					"error": err.Error(),
				})
				continue
			}
			logger.Log("info", "catalog reloaded", map[string]interface{}{
				"dir":     w.dir,
				"version": w.store.Version(),
			})
		}
	}
}

func isDataFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

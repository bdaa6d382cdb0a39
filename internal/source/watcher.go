package source

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"menucatalog/internal/catalog"
)

// ReloadFunc receives the result of every reload triggered by the watcher.
type ReloadFunc func(items []catalog.MenuItem, err error)

// FileWatcher reloads a FileSource whenever its file is written or replaced.
// The parent directory is watched so editors that save via rename are seen.
type FileWatcher struct {
	src      *FileSource
	onReload ReloadFunc
	watcher  *fsnotify.Watcher
	log      *zap.Logger
}

func NewFileWatcher(src *FileSource, onReload ReloadFunc, log *zap.Logger) (*FileWatcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(src.Path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(src.Path), err)
	}
	return &FileWatcher{src: src, onReload: onReload, watcher: w, log: log.Named("watcher")}, nil
}

// Watch blocks until ctx is cancelled or the watcher is closed.
func (fw *FileWatcher) Watch(ctx context.Context) {
	target := filepath.Clean(fw.src.Path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.log.Info("catalog file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
				fw.HandleFileChange(ctx)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// HandleFileChange reloads the catalog and hands the result to the callback.
func (fw *FileWatcher) HandleFileChange(ctx context.Context) {
	items, err := fw.src.Load(ctx)
	if err != nil {
		fw.log.Error("reloading catalog", zap.Error(err))
	}
	fw.onReload(items, err)
}

func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

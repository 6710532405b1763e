package modelstore

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"foodshare/internal/bootstrap/logging"
	"foodshare/internal/errs"
)

// Watch hot-reloads the artifact when the retraining job replaces the file.
// It watches the parent directory because most writers replace the file via
// rename, which drops a watch on the file itself. Blocks until ctx is done.
func (p *FileProvider) Watch(ctx context.Context) error {
	if ctx == nil {
		return errors.New("context is required")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errs.Wrap(err, "create artifact watcher")
	}
	defer watcher.Close()

	dir := filepath.Dir(p.path)
	if err := watcher.Add(dir); err != nil {
		return errs.Wrapf(err, "watch artifact directory %q", dir)
	}

	target := filepath.Clean(p.path)
	logCtx := logging.WithAttrs(ctx, slog.String("component", "modelstore.watcher"))
	logging.Info(logCtx, "watching model artifact", slog.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := p.Reload(logCtx); err != nil {
				logging.Warn(logCtx, "artifact reload failed", slog.Any("err", errs.Loggable(err)))
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn(logCtx, "artifact watcher error", slog.Any("err", errs.Loggable(watchErr)))
		}
	}
}

// Package watch feeds a description file into a live session whenever the
// file changes on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Submitter receives the new contents of the watched file.
type Submitter interface {
	Submit(text string)
}

// Watcher watches a single file. It watches the parent directory so that
// editors which save by rename-and-replace keep being followed.
type Watcher struct {
	path    string
	target  Submitter
	logger  *zap.Logger
	watcher *fsnotify.Watcher
}

// New creates a watcher for path. The file does not need to exist yet.
func New(path string, target Submitter, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:    abs,
		target:  target,
		logger:  logger,
		watcher: fsWatcher,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Submit reads the file once and hands its contents to the target.
// A missing file submits nothing.
func (w *Watcher) Submit() error {
	data, err := os.ReadFile(w.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", w.path, err)
	}
	w.target.Submit(string(data))
	return nil
}

// Run forwards file changes until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("description file changed",
				zap.String("file", event.Name),
				zap.String("operation", event.Op.String()),
			)
			if err := w.Submit(); err != nil {
				w.logger.Warn("failed to read description file",
					zap.String("file", w.path),
					zap.Error(err),
				)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", zap.Error(err))
		}
	}
}

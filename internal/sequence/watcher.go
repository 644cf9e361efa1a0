package sequence

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Logger is the minimal logging interface the watcher needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Watcher invalidates the store's cache when sequence files change on disk,
// so edits made outside the daemon take effect without a restart.
type Watcher struct {
	store   *Store
	logger  Logger
	watcher *fsnotify.Watcher
}

// NewWatcher creates a Watcher over the store's directory. A nil logger is
// replaced with a no-op logger.
func NewWatcher(store *Store, logger Logger) (*Watcher, error) {
	if logger == nil {
		logger = noopLogger{}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating sequence watcher: %w", err)
	}
	if err := fsw.Add(store.Dir()); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching sequence directory %q: %w", store.Dir(), err)
	}

	return &Watcher{
		store:   store,
		logger:  logger,
		watcher: fsw,
	}, nil
}

// Run processes filesystem events until the context is cancelled. Writes,
// creates, renames, and removals of sequence files drop the matching cache
// entry; the next Load re-reads from disk.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.logger.Info("sequence watcher started", "dir", w.store.Dir())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sequence watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.handleError(err)
		}
	}
}

// handleError reacts to a watcher fault. Events may have been lost, so the
// whole cache is dropped rather than keep serving possibly stale steps.
func (w *Watcher) handleError(err error) {
	w.store.InvalidateAll()
	w.logger.Error("sequence watcher error, cache dropped", "error", err)
}

// handleEvent invalidates the cache entry for the affected sequence file.
// Temp files from atomic saves are skipped; their rename targets arrive as
// separate events.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, defaultExtension) {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	name := strings.TrimSuffix(base, defaultExtension)
	w.store.Invalidate(name)
	w.logger.Debug("sequence cache invalidated", "sequence", name, "op", event.Op.String())
}

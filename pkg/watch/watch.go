package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/ktconf/pkg/log"
)

// DefaultDebounce is how long [Watcher.Run] waits for more events before
// reporting a change set.
const DefaultDebounce = 200 * time.Millisecond

// ErrClosed is returned by [Watcher.Run] when the watcher was closed.
var ErrClosed = errors.New("watcher closed")

// ChangeFunc receives the sorted, de-duplicated absolute paths of files that
// changed. A returned error is logged and does not stop the watcher.
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher watches a set of files through their parent directories.
type Watcher struct {
	watcher *fsnotify.Watcher

	// Absolute paths of the files changes are reported for.
	watchedFiles map[string]struct{}

	// Absolute paths of the directories added to the fsnotify watcher.
	watchedDirs map[string]struct{}

	debounce time.Duration
	mu       sync.Mutex
}

// WatcherOpt configures a [Watcher].
type WatcherOpt func(*Watcher)

// WithDebounce sets the debounce window. Non-positive values are ignored.
func WithDebounce(d time.Duration) WatcherOpt {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates a new [Watcher] that watches nothing yet.
func New(opts ...WatcherOpt) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		watcher:      fsw,
		watchedFiles: make(map[string]struct{}),
		watchedDirs:  make(map[string]struct{}),
		debounce:     DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// SetFiles replaces the watched files. Files whose parent directory does not
// exist are remembered, but cannot produce events.
func (w *Watcher) SetFiles(ctx context.Context, files []string) error {
	logger := log.FromContext(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.removeWatchers(ctx)

	for _, file := range files {
		absFile, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("get absolute path: %w", err)
		}

		w.watchedFiles[absFile] = struct{}{}

		dir := filepath.Dir(absFile)
		if _, ok := w.watchedDirs[dir]; ok {
			continue
		}

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			logger.DebugContext(ctx, "skip watching missing directory", slog.String("dir", dir))

			continue
		}

		err = w.watcher.Add(dir)
		if err != nil {
			return fmt.Errorf("add path to watcher: %w", err)
		}

		w.watchedDirs[dir] = struct{}{}
	}

	logger.DebugContext(ctx, "added file watchers",
		slog.Int("files", len(w.watchedFiles)),
		slog.Int("dirs", len(w.watchedDirs)),
	)

	return nil
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.watchedFiles))
	for f := range w.watchedFiles {
		files = append(files, f)
	}

	slices.Sort(files)

	return files
}

// removeWatchers must be called with w.mu held.
func (w *Watcher) removeWatchers(ctx context.Context) {
	logger := log.FromContext(ctx)

	for dir := range w.watchedDirs {
		err := w.watcher.Remove(dir)
		if errors.Is(err, fsnotify.ErrNonExistentWatch) {
			continue
		}
		if err != nil {
			logger.ErrorContext(ctx, "remove path from watcher", slog.Any("err", err))
		}
	}

	clear(w.watchedDirs)
	clear(w.watchedFiles)
}

func (w *Watcher) isFileWatched(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, ok := w.watchedFiles[path]

	return ok
}

// Run consumes file system events until ctx is done or the watcher is
// closed, calling fn once per debounced change set. fn runs on the calling
// goroutine and may call [Watcher.SetFiles].
func (w *Watcher) Run(ctx context.Context, fn ChangeFunc) error {
	logger := log.FromContext(ctx)

	pending := make(map[string]struct{})

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err() //nolint:wrapcheck // Return the context error as is.

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return ErrClosed
			}

			// Ignore events that are not related to file content changes.
			if evt.Has(fsnotify.Chmod) {
				continue
			}

			if !w.isFileWatched(evt.Name) {
				continue
			}

			logger.DebugContext(ctx, "file event", slog.String("event", evt.String()))

			pending[evt.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrClosed
			}

			logger.ErrorContext(ctx, "watcher error", slog.Any("err", err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}

			slices.Sort(changed)
			clear(pending)

			err := fn(ctx, changed)
			if err != nil {
				logger.ErrorContext(ctx, "handle file changes",
					slog.Any("files", changed),
					slog.Any("err", err),
				)
			}
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}

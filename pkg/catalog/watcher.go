package catalog

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadFunc re-parses and re-registers the policy document at path.
type reloadFunc func(ctx context.Context, path string) error

// DirWatcher watches a directory of policy documents for changes and
// drives them into a Catalog, debounced so a burst of saves to the same
// file triggers one reload rather than one per fsnotify event.
type DirWatcher struct {
	dir      string
	reload   reloadFunc
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewDirWatcher constructs a watcher for dir. It does not start watching or
// load anything until Start/LoadAll are called.
func NewDirWatcher(dir string, reload reloadFunc, logger *slog.Logger) (*DirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &StoreError{Backend: "watcher", Operation: "open", Cause: err}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DirWatcher{
		dir:      dir,
		reload:   reload,
		logger:   logger,
		watcher:  w,
		debounce: 100 * time.Millisecond,
		timers:   make(map[string]*time.Timer),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// LoadAll reads every policy document currently under dir.
func (w *DirWatcher) LoadAll(ctx context.Context) error {
	return filepath.WalkDir(w.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isPolicyFile(path) {
			return nil
		}
		return w.reload(ctx, path)
	})
}

// Start begins watching dir in the background. It returns once the
// watcher is registered; reloads happen asynchronously.
func (w *DirWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return &StoreError{Backend: "watcher", Operation: "watch", Cause: err}
	}

	go w.run(ctx)
	return nil
}

func (w *DirWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.debounceReload(ctx, event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("catalog directory watch error", "error", err)
		}
	}
}

func (w *DirWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	return isPolicyFile(event.Name)
}

// debounceReload schedules a reload of path after the debounce interval,
// replacing any pending timer for the same path.
func (w *DirWatcher) debounceReload(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		if _, err := os.Stat(path); err != nil {
			return
		}
		if err := w.reload(ctx, path); err != nil {
			w.logger.Error("catalog reload failed", "path", path, "error", err)
		}
	})
}

// Stop stops the watcher and waits for the run loop to exit.
func (w *DirWatcher) Stop() {
	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()

	w.watcher.Close()
}

func isPolicyFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

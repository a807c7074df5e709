package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vvka-141/arkroute/internal/logging"
	"github.com/vvka-141/arkroute/pkg/arkroute"
)

// ChangeFunc is called with the sorted set of paths that changed since the
// previous call. Calls never overlap.
type ChangeFunc func(ctx context.Context, changed []string)

// Watcher reruns a callback when .ets sources under a root change.
type Watcher struct {
	root     string
	ignore   []string
	debounce time.Duration
	logger   arkroute.Logger
}

type Option func(*Watcher)

// WithDebounce sets how long the tree must be quiet before a callback.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnoreDir drops events at or below dir, typically the generated
// output directory.
func WithIgnoreDir(dir string) Option {
	return func(w *Watcher) {
		if dir != "" {
			w.ignore = append(w.ignore, filepath.Clean(dir))
		}
	}
}

func WithLogger(l arkroute.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

func New(root string, opts ...Option) *Watcher {
	w := &Watcher{
		root:     filepath.Clean(root),
		debounce: arkroute.DefaultWatchDebounce,
		logger:   logging.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is done or the underlying watcher fails. Directories
// created under the root are watched as they appear.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	info, err := os.Stat(w.root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s: %w", w.root, arkroute.ErrScanRootNotFound)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer watcher.Close()

	if err := w.addRecursive(watcher, w.root); err != nil {
		return err
	}
	w.logger.Info("Watching %s", w.root)

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	pending := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if w.ignored(path) {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if fi, statErr := os.Stat(path); statErr == nil && fi.IsDir() {
					if err := w.addRecursive(watcher, path); err != nil {
						w.logger.Error("Failed to watch %s: %v", path, err)
					}
					pending[path] = true
					resetTimer(timer, w.debounce)
					continue
				}
			}

			if !Relevant(path, event.Op) {
				continue
			}
			w.logger.Verbose("%s %s", event.Op, path)
			pending[path] = true
			resetTimer(timer, w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			onChange(ctx, changed)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher failed: %w", watchErr)
		}
	}
}

// Relevant reports whether an event on path can change the routes: any
// change to an .ets file, or a removal or rename that may be a directory.
func Relevant(path string, op fsnotify.Op) bool {
	if op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".#") || strings.HasSuffix(base, "~") {
		return false
	}
	ext := filepath.Ext(base)
	if ext == arkroute.SourceExtension {
		return true
	}
	return ext == "" && op&(fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) ignored(path string) bool {
	for _, dir := range w.ignore {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !entry.IsDir() {
			return nil
		}
		if path != w.root && (strings.HasPrefix(entry.Name(), ".") || w.ignored(path)) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

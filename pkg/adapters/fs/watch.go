package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch of changes is reported.
const DefaultDebounce = 200 * time.Millisecond

// Change is a debounced batch of content changes.
type Change struct {
	Paths []string // Slash-separated, relative to the content root, sorted.
	At    time.Time
}

func (c Change) String() string {
	return fmt.Sprintf("content changed: %s", strings.Join(c.Paths, ", "))
}

// WatchOptions tunes Watch.
type WatchOptions struct {
	Debounce     time.Duration
	ErrorHandler func(error) // Called for watcher errors; they are logged either way.
}

// Watch reports changes below the content root until ctx is done.
// The repository itself stays stateless; callers re-query it when a Change arrives.
// The returned channel is closed when watching stops.
func (r *Repository) Watch(ctx context.Context, opts WatchOptions) (<-chan Change, error) {
	if err := r.checkRoot(); err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := r.addDirs(watcher, r.Path); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	out := make(chan Change)
	w := &watchLoop{repo: r, watcher: watcher, out: out, opts: opts}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		if err := w.run(ctx); err != nil {
			w.fail(err)
		}
		return nil
	}, lifecycle.WithErrorHandler(w.fail))

	return out, nil
}

// addDirs registers dir and every non-skipped directory below it.
func (r *Repository) addDirs(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			r.logger.Debug("cannot watch path", "path", path, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.Path && skipName(d.Name()) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

type watchLoop struct {
	repo    *Repository
	watcher *fsnotify.Watcher
	out     chan<- Change
	opts    WatchOptions
}

func (w *watchLoop) fail(err error) {
	w.repo.logger.Error("watcher stopped", "error", err)
	if w.opts.ErrorHandler != nil {
		w.opts.ErrorHandler(err)
	}
}

func (w *watchLoop) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if w.repo.logger.Enabled(ctx, slog.LevelDebug) {
				w.repo.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			}
		}
	}()
	defer close(w.out)
	defer w.watcher.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			rel, relevant := w.relevant(event)
			if !relevant {
				continue
			}
			w.repo.logger.Debug("content changed", "path", rel, "op", event.Op.String())
			pending[rel] = struct{}{}
			timer.Reset(w.opts.Debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			change := Change{At: time.Now()}
			for p := range pending {
				change.Paths = append(change.Paths, p)
			}
			sort.Strings(change.Paths)
			clear(pending)

			select {
			case w.out <- change:
			case <-ctx.Done():
				return nil
			}

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.repo.logger.Error("fsnotify error", "error", wErr)
			if w.opts.ErrorHandler != nil {
				w.opts.ErrorHandler(wErr)
			}
		}
	}
}

// relevant filters an event down to content changes and follows new directories.
func (w *watchLoop) relevant(event fsnotify.Event) (string, bool) {
	if event.Op == fsnotify.Chmod {
		return "", false
	}
	rel, err := filepath.Rel(w.repo.Path, event.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	for _, seg := range strings.Split(rel, "/") {
		if skipName(seg) {
			return "", false
		}
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.repo.addDirs(w.watcher, event.Name); err != nil {
				w.repo.logger.Warn("cannot watch new directory", "path", rel, "error", err)
			}
			return rel, true
		}
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return rel, true
	}

	match, _ := doublestar.Match(w.repo.config.Include, rel)
	return rel, match
}

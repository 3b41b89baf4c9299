package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a watcher waits for writes to settle.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reconverts files of a tree as they change. Events are collected
// until the tree is quiet for the debounce period, then each changed file
// is converted once.
type Watcher struct {
	batch    *Batch
	root     string
	debounce time.Duration
	logger   *slog.Logger
	onResult func(FileResult)
	watcher  *fsnotify.Watcher
}

// WatchOptions configures a Watcher.
type WatchOptions struct {
	Debounce time.Duration
	// OnResult is called for every converted, failed or skipped file.
	OnResult func(FileResult)
}

// NewWatcher watches root and every directory below it that the batch does
// not skip.
func NewWatcher(b *Batch, root string, opts WatchOptions) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	w := &Watcher{
		batch:    b,
		root:     root,
		debounce: opts.Debounce,
		logger:   b.opts.Logger,
		onResult: opts.OnResult,
		watcher:  fw,
	}

	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	if w.onResult == nil {
		w.onResult = func(FileResult) {}
	}

	if err := w.addTree(root); err != nil {
		fw.Close()

		return nil, err
	}

	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != dir && (w.batch.skipped(d.Name()) || w.inOutput(path)) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}

		return nil
	})
}

// Run processes events until ctx is done. The watcher is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.logger.InfoContext(ctx, "watching", "root", w.root, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	pending := map[string]struct{}{}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()

			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if w.handle(ctx, event, pending) {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			w.logger.ErrorContext(ctx, "watcher error", "error", err)
		case <-timer.C:
			w.flush(ctx, pending)
			clear(pending)
		}
	}
}

// handle records a changed file and reports whether the debounce timer
// should restart. New directories are watched as they appear.
func (w *Watcher) handle(ctx context.Context, event fsnotify.Event, pending map[string]struct{}) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}

	if w.batch.skipped(filepath.Base(event.Name)) || w.inOutput(event.Name) {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// Renamed away or removed before we looked.
		return false
	}

	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addTree(event.Name); err != nil {
				w.logger.WarnContext(ctx, "cannot watch new directory", "path", event.Name, "error", err)
			}
		}

		return false
	}

	pending[event.Name] = struct{}{}

	return true
}

// inOutput reports whether path lies in the output root, whose writes must
// not feed back into the watch.
func (w *Watcher) inOutput(path string) bool {
	out := w.batch.opts.OutputRoot
	if out == "" {
		return false
	}

	out, err := filepath.Abs(out)
	if err != nil {
		return false
	}

	path, err = filepath.Abs(path)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(out, path)

	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) flush(ctx context.Context, pending map[string]struct{}) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}

	slices.Sort(paths)

	for _, p := range paths {
		res := w.batch.File(ctx, w.root, p)
		if res.Status == "" {
			continue
		}

		if res.Err != nil && errors.Is(res.Err, fs.ErrNotExist) {
			continue
		}

		w.onResult(res)
	}
}

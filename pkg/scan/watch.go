package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/greyhaven-ai/doccov/pkg/logger"
	"github.com/greyhaven-ai/doccov/pkg/walker"
)

// DefaultDebounce is how long watch mode waits after the last filesystem
// event before rescanning. Editors often emit bursts of writes per save.
const DefaultDebounce = 500 * time.Millisecond

// WatchOptions configure continuous scanning.
type WatchOptions struct {
	Scan Options
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
	// OnResult is invoked after the initial scan and after every rescan.
	// It must not be nil.
	OnResult func(*Result)
}

// Watch runs an initial scan, then rescans whenever sources under the root
// change, until ctx is cancelled. Scan failures during rescans are logged
// and do not stop the watch.
func Watch(ctx context.Context, opts WatchOptions) error {
	if opts.OnResult == nil {
		return errors.New("watch requires an OnResult callback")
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	log := logger.G(ctx)

	result, err := Run(ctx, opts.Scan)
	if err != nil {
		return err
	}
	opts.OnResult(result)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create filesystem watcher")
	}
	defer w.Close()

	if err := watchTree(w, opts.Scan.Root); err != nil {
		return err
	}
	log.WithField("root", opts.Scan.Root).Info("watching for changes")

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			// New directories need their own watch before events under
			// them can arrive.
			if event.Op.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if !walker.IsSkippedDir(filepath.Base(event.Name)) {
						_ = watchTree(w, event.Name)
					}
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watcher error")

		case <-fire:
			fire = nil
			result, err := Run(ctx, opts.Scan)
			if err != nil {
				log.WithError(err).Error("rescan failed")
				continue
			}
			opts.OnResult(result)
		}
	}
}

// watchTree registers the watcher on root and every non-skipped directory
// beneath it.
func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && walker.IsSkippedDir(filepath.Base(path)) {
			return filepath.SkipDir
		}
		if addErr := w.Add(path); addErr != nil {
			return errors.Wrapf(addErr, "watch %s", path)
		}
		return nil
	})
}

// relevant filters out event types that cannot change scan results.
func relevant(event fsnotify.Event) bool {
	return event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Remove) ||
		event.Op.Has(fsnotify.Rename)
}

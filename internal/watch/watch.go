// Package watch re-runs a render whenever a transcript file changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of writes Claude Code makes per turn.
const DefaultDebounce = 150 * time.Millisecond

// Run calls fn once, then again each time path is written, created or
// renamed, at most once per debounce interval. It watches the parent
// directory so a file that does not exist yet, or is replaced, is still
// picked up. Errors from fn are logged and do not stop the loop. Run returns
// nil when ctx is done.
func Run(ctx context.Context, path string, debounce time.Duration, fn func() error) error {
	if path == "" {
		return errors.New("watch: no transcript path")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	target := filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	call := func() {
		if err := fn(); err != nil {
			slog.Warn("render failed", "err", err)
		}
	}
	call()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !relevant(ev.Op) {
				continue
			}
			slog.Debug("transcript changed", "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "err", err)
		case <-timer.C:
			call()
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename)
}

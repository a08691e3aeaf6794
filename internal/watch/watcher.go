// Package watch triggers rescans when serial device nodes come and go.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
)

// RescanFunc is called once at start and after every settled burst of
// device node events.
type RescanFunc func(ctx context.Context)

// Watch starts an fsnotify watcher on dir and calls rescan until ctx is
// cancelled. Create, remove and rename events for names matching one of
// patterns (filepath.Match syntax) are debounced: rescan runs once the
// events have been quiet for debounce.
func Watch(ctx context.Context, dir string, patterns []string, debounce time.Duration, logger *slog.Logger, rescan RescanFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}

	logger.Info("watcher: started", slog.String("dir", dir))
	rescan(ctx)

	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	scheduleRescan := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(debounce)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-settleCh:
			logger.Debug("watcher: rescanning")
			rescan(ctx)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !Matches(patterns, filepath.Base(ev.Name)) {
				continue
			}
			logger.Debug("watcher: device node event",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()))
			scheduleRescan()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// Matches reports whether name matches any of patterns. Malformed patterns
// never match.
func Matches(patterns []string, name string) bool {
	return lo.SomeBy(patterns, func(p string) bool {
		ok, err := filepath.Match(p, name)
		return err == nil && ok
	})
}

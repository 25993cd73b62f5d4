package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/wippyai/typesize/check"
	"github.com/wippyai/typesize/report"
)

const watchDebounce = 200 * time.Millisecond

// runWatch checks path once, then again after every write to it, until ctx
// is done. The parent directory is watched so editors that replace the
// file are followed.
func runWatch(ctx context.Context, logger *zap.Logger, path string, opts check.Options, w report.Writer, out io.Writer) error {
	if path == "-" {
		return fmt.Errorf("watch: standard input cannot be watched")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(abs)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	rerun := func() {
		err := checkOnce(ctx, abs, opts, w, out)
		if err != nil && !stderrors.Is(err, errFailed) {
			logger.Warn("check failed", zap.String("path", abs), zap.Error(err))
		}
		fmt.Fprintf(out, "watching %s (ctrl+c to stop)\n", path)
	}
	rerun()

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("report changed", zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.AfterFunc(watchDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(watchDebounce)
			}

		case <-fire:
			rerun()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}

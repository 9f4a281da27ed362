package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchConfig configures the corpus watcher (C18).
type WatchConfig struct {
	// SettleWindow is how long a batch of create/write events must go
	// quiet before it triggers a re-run.
	SettleWindow time.Duration
}

// DefaultWatchConfig returns spec.md's implementation-note default.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{SettleWindow: 2 * time.Second}
}

// Watch watches the configured papers root for *.json create/write events
// and triggers a full Run on every settled batch, under the same run
// label, until ctx is canceled. Re-triggering is safe to repeat: each Run
// replaces the run's metadata rows in one transaction and upserts vector
// points under deterministic chunk ids; points for chunks that no longer
// exist are not removed. Grounded on the idea in the
// teacher's internal/watcher.Debouncer (coalesce rapid events behind a
// timer) but simplified: a flat directory of paper JSON files has no
// rename, gitignore or directory-tree semantics to track.
func (ix *Indexer) Watch(ctx context.Context, wcfg WatchConfig) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("indexer: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(ix.cfg.PapersRoot); err != nil {
		return fmt.Errorf("indexer: watch %q: %w", ix.cfg.PapersRoot, err)
	}

	if wcfg.SettleWindow <= 0 {
		wcfg = DefaultWatchConfig()
	}

	var timer *time.Timer
	trigger := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(wcfg.SettleWindow, func() {
					select {
					case trigger <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(wcfg.SettleWindow)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("indexer: watch error", "error", err)

		case <-trigger:
			slog.Info("indexer: papers root settled, re-indexing", "root", ix.cfg.PapersRoot)
			if _, err := ix.Run(ctx); err != nil {
				slog.Error("indexer: re-run after watch trigger failed", "error", err)
			}
		}
	}
}

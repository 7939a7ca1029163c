package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/blackwell-systems/catlaunch/internal/settings"
	"github.com/blackwell-systems/catlaunch/internal/variant"
)

// DefaultInterval is how often pending changes are re-applied.
const DefaultInterval = 2 * time.Second

// Reapplier pushes the saved settings back onto disk.
type Reapplier interface {
	Reapply(ctx context.Context) error
}

// Watcher observes every variant's config directory and restores the
// selected font and color theme when fonts.json or base_colors.json is
// changed or removed behind the launcher's back. Events are coalesced and handled once per tick.
type Watcher struct {
	layout   variant.Layout
	syncer   Reapplier
	interval time.Duration

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
	dirty  atomic.Bool
	once   sync.Once
}

// New creates a Watcher. A non-positive interval uses DefaultInterval.
func New(layout variant.Layout, syncer Reapplier, interval time.Duration) (*Watcher, error) {
	if syncer == nil {
		return nil, fmt.Errorf("syncer cannot be nil")
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		layout:   layout,
		syncer:   syncer,
		interval: interval,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start re-applies the saved settings once, registers the config
// directories, and begins watching. It returns after setup; call Stop to
// end the loop.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	for _, v := range variant.All() {
		dir, err := w.layout.UserConfigDir(v)
		if err != nil {
			fsw.Close()
			return err
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	w.fsw = fsw

	if err := w.syncer.Reapply(ctx); err != nil {
		slog.WarnContext(ctx, "watcher: initial settings sync failed", "error", err)
	}

	w.wg.Add(1)
	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if relevant(event) {
				slog.DebugContext(ctx, "watcher: settings file changed", "path", event.Name, "op", event.Op.String())
				w.dirty.Store(true)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.WarnContext(ctx, "watcher: file watch error", "error", err)
		case <-ticker.C:
			w.flush(ctx)
		case <-w.stopCh:
			w.flush(ctx)
			return
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) flush(ctx context.Context) {
	if !w.dirty.Swap(false) {
		return
	}
	if err := w.syncer.Reapply(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.WarnContext(ctx, "watcher: settings sync failed", "error", err)
	}
}

// relevant ignores everything but the theme and fonts files; the syncer's
// own temp files are skipped so a rewrite does not retrigger.
func relevant(event fsnotify.Event) bool {
	switch filepath.Base(event.Name) {
	case settings.ThemeFileName, settings.FontsFileName:
	default:
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// Stop halts the watcher after a final flush of pending changes.
func (w *Watcher) Stop() error {
	w.once.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

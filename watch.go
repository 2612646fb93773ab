//go:build linux || darwin

package hostinfo

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// DefaultWatchDebounce coalesces the burst of events an editor or package
// manager produces when rewriting a unit file.
const DefaultWatchDebounce = 200 * time.Millisecond

// WatchUnit reports the unit once and then again every time its unit file or
// drop-in directory changes on disk. Nothing is kept between events; each is
// a fresh UnitInfo lookup.
//
// The returned cleanup function must be called to release the watcher. The
// channel is closed once the watch has stopped.
func WatchUnit(ctx context.Context, builder *InfoBuilder, unit string) (<-chan UnitEvent, WatchCleanupFunc, error) {
	fragment, err := builder.Systemctl().ShowProperty(ctx, unit, propFragmentPath)
	if err != nil {
		return nil, nil, err
	}
	if fragment == "" {
		return nil, nil, &UnitQueryError{Unit: unit, Query: "show " + propFragmentPath, Err: ErrNoFragment}
	}
	fragment = filepath.Clean(fragment)
	dropIn := fragment + ".d"

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, &UnitQueryError{Unit: unit, Query: "watch", Err: err}
	}

	if err := watcher.Add(filepath.Dir(fragment)); err != nil {
		_ = watcher.Close()
		return nil, nil, &UnitQueryError{Unit: unit, Query: "watch", Err: err}
	}
	// The drop-in directory is optional
	_ = watcher.Add(dropIn)

	ch := make(chan UnitEvent, 10)

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
		close(ch)
	})

	cleanup := func() error {
		sctx.Stop(100 * time.Millisecond)
		return sctx.Wait()
	}

	relevant := func(name string) bool {
		name = filepath.Clean(name)
		return name == fragment || name == dropIn || strings.HasPrefix(name, dropIn+string(filepath.Separator))
	}

	sctx.Go(func(sctx *stopper.Context) error {
		send := func(ev UnitEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-sctx.Stopping():
				return false
			case <-ctx.Done():
				return false
			}
		}
		report := func() bool {
			info, err := builder.UnitInfo(ctx, unit)
			return send(UnitEvent{Info: info, Err: err})
		}

		if !report() {
			return nil
		}

		var debounce *time.Timer
		var fire <-chan time.Time
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()

		for {
			select {
			case <-sctx.Stopping():
				return nil

			case <-ctx.Done():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !relevant(event.Name) {
					continue
				}
				if filepath.Clean(event.Name) == dropIn && event.Has(fsnotify.Create) {
					_ = watcher.Add(dropIn)
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.NewTimer(DefaultWatchDebounce)
				fire = debounce.C

			case <-fire:
				fire = nil
				if !report() {
					return nil
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil && !send(UnitEvent{Err: err}) {
					return nil
				}
			}
		}
	})

	return ch, cleanup, nil
}

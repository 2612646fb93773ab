//go:build !linux && !darwin

package hostinfo

import "context"

// WatchUnit is not available on this platform
func WatchUnit(_ context.Context, _ *InfoBuilder, _ string) (<-chan UnitEvent, WatchCleanupFunc, error) {
	return nil, nil, ErrWatchUnsupported
}

package hostinfo

import (
	"context"
	"sync"
	"time"
)

// Manager looks up several units concurrently.
// Each unit's report is still assembled sequentially and is all-or-nothing;
// the Manager only overlaps work between different units.
type Manager struct {
	// Concurrency is the maximum number of units looked up at once
	Concurrency int
	// Timeout is the per-unit timeout
	Timeout time.Duration

	builder *InfoBuilder
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithConcurrency sets the maximum number of concurrent lookups
func WithConcurrency(n int) ManagerOption {
	return func(m *Manager) {
		m.Concurrency = n
	}
}

// WithTimeout sets the per-unit timeout
func WithTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.Timeout = d
	}
}

// NewManager creates a new Manager with default settings
func NewManager(builder *InfoBuilder, opts ...ManagerOption) *Manager {
	m := &Manager{
		Concurrency: 4,
		Timeout:     30 * time.Second,
		builder:     builder,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.Concurrency < 1 {
		m.Concurrency = 1
	}

	return m
}

// UnitInfos returns the reports of the named units keyed by the requested
// name. Units that fail are missing from the map and their errors are
// collected into a *MultiError.
func (m *Manager) UnitInfos(ctx context.Context, units ...string) (map[string]UnitInfo, error) {
	if len(units) == 0 {
		return make(map[string]UnitInfo), nil
	}

	// Semaphore for concurrency control
	sem := make(chan struct{}, m.Concurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make(map[string]UnitInfo, len(units))
	merr := &MultiError{}

	for _, unit := range units {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				merr.Add(&UnitQueryError{Unit: name, Query: "info", Err: ctx.Err()})
				mu.Unlock()
				return
			}

			opCtx := ctx
			if m.Timeout > 0 {
				var cancel context.CancelFunc
				opCtx, cancel = context.WithTimeout(ctx, m.Timeout)
				defer cancel()
			}

			info, err := m.builder.UnitInfo(opCtx, name)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				merr.Add(err)
				return
			}
			results[name] = info
		}(unit)
	}

	wg.Wait()

	return results, merr.Err()
}

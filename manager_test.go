package hostinfo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerUnitInfos(t *testing.T) {
	f := newFakeRunner()
	scriptService(f, "nginx.service")
	scriptTimer(f, "logrotate.timer")
	f.on(showCmd("ghost.service", "Id"), "")

	mgr := NewManager(newTestBuilder(f),
		WithConcurrency(2),
		WithTimeout(1*time.Second),
	)

	infos, err := mgr.UnitInfos(context.Background(), "nginx.service", "logrotate.timer", "ghost.service")
	require.Error(t, err)

	var merr *MultiError
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 1)
	assert.ErrorIs(t, err, ErrUnknownUnit)

	require.Len(t, infos, 2)
	assert.Equal(t, UnitKindService, infos["nginx.service"].Kind())
	assert.Equal(t, UnitKindTimer, infos["logrotate.timer"].Kind())
	_, ok := infos["ghost.service"]
	assert.False(t, ok)
}

func TestManagerEmptyUnits(t *testing.T) {
	mgr := NewManager(newTestBuilder(newFakeRunner()))

	infos, err := mgr.UnitInfos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestManagerConcurrency(t *testing.T) {
	f := newFakeRunner()
	var units []string
	for i := 0; i < 10; i++ {
		unit := fmt.Sprintf("worker%d.service", i)
		scriptService(f, unit)
		units = append(units, unit)
	}

	mgr := NewManager(newTestBuilder(f), WithConcurrency(3))
	infos, err := mgr.UnitInfos(context.Background(), units...)
	require.NoError(t, err)
	assert.Len(t, infos, 10)
}

func TestManagerCancelledContext(t *testing.T) {
	f := newFakeRunner()
	scriptService(f, "nginx.service")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	infos, err := NewManager(newTestBuilder(f)).UnitInfos(ctx, "nginx.service")
	require.Error(t, err)
	assert.Empty(t, infos)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewManagerDefaults(t *testing.T) {
	mgr := NewManager(nil, WithConcurrency(0))
	assert.Equal(t, 1, mgr.Concurrency)
	assert.Equal(t, 30*time.Second, mgr.Timeout)
}

func TestMultiError(t *testing.T) {
	merr := &MultiError{}

	if err := merr.Err(); err != nil {
		t.Error("empty MultiError should return nil")
	}

	merr.Add(nil)
	if err := merr.Err(); err != nil {
		t.Error("MultiError with nil errors should return nil")
	}

	err1 := &UnknownUnitError{Unit: "a.service"}
	merr.Add(err1)

	if err := merr.Err(); err == nil {
		t.Error("MultiError with errors should return non-nil")
	}

	if merr.Error() != err1.Error() {
		t.Errorf("single error message = %v, want %v", merr.Error(), err1.Error())
	}

	err2 := &ParseError{Command: "uptime", Expected: "load average"}
	merr.Add(err2)

	if merr.Error() != "2 errors occurred" {
		t.Errorf("multiple errors message = %v, want '2 errors occurred'", merr.Error())
	}
	assert.ErrorIs(t, merr, ErrParse)
	assert.ErrorIs(t, merr, ErrUnknownUnit)
}

package hostinfo

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitInfoService(t *testing.T) {
	f := newFakeRunner()
	scriptService(f, "nginx")

	info, err := newTestBuilder(f).UnitInfo(context.Background(), "nginx")
	require.NoError(t, err)
	require.Equal(t, UnitKindService, info.Kind())

	svc, ok := info.(*ServiceInfo)
	require.True(t, ok, "got %T", info)

	assert.Equal(t, "nginx.service", svc.ID)
	assert.Equal(t, "forking", svc.Type)
	assert.Equal(t, "A high performance web server and a reverse proxy server", svc.Description)
	assert.True(t, svc.Active)
	assert.True(t, svc.Enabled)
	assert.Equal(t, "active", svc.ActiveStatus)
	assert.Equal(t, "enabled", svc.EnabledStatus)
	assert.True(t, svc.CanStart)
	assert.True(t, svc.CanStop)
	assert.False(t, svc.CanReload)
	require.NotNil(t, svc.StateChange)
	assert.True(t, svc.StateChange.Equal(time.Date(2019, 3, 7, 23, 42, 1, 0, time.UTC)))
	assert.Equal(t, "www-data", svc.User)
	assert.Same(t, &svc.UnitBase, info.Base())
}

func TestUnitInfoStatusDetailDropsHeader(t *testing.T) {
	f := newFakeRunner()
	scriptService(f, "nginx.service")

	info, err := newTestBuilder(f).UnitInfo(context.Background(), "nginx.service")
	require.NoError(t, err)

	detail := info.Base().StatusDetail
	assert.NotContains(t, detail, "● nginx.service - A high performance web server")
	assert.True(t, strings.HasPrefix(detail, "     Loaded: loaded"), detail)
	assert.Equal(t, nginxStatus[strings.Index(nginxStatus, "\n")+1:], detail)
}

func TestUnitInfoTimer(t *testing.T) {
	f := newFakeRunner()
	scriptTimer(f, "logrotate.timer")

	info, err := newTestBuilder(f).UnitInfo(context.Background(), "logrotate.timer")
	require.NoError(t, err)

	timer, ok := info.(*TimerInfo)
	require.True(t, ok, "got %T", info)
	assert.Equal(t, UnitKindTimer, timer.Kind())

	assert.Equal(t, "logrotate.timer", timer.ID)
	assert.Equal(t, "Daily rotation of log files", timer.Description)
	assert.False(t, timer.Active)
	assert.False(t, timer.Enabled)
	assert.Equal(t, "inactive", timer.ActiveStatus)
	assert.Equal(t, "disabled", timer.EnabledStatus)
	assert.True(t, strings.HasPrefix(timer.StatusDetail, "     Loaded:"), timer.StatusDetail)
	assert.Nil(t, timer.LastTrigger)
	require.NotNil(t, timer.NextElapse)
	assert.True(t, timer.NextElapse.Equal(time.Date(2019, 3, 8, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "logrotate.service", timer.Unit)
}

func TestUnitInfoUnknown(t *testing.T) {
	t.Run("empty Id", func(t *testing.T) {
		f := newFakeRunner().on(showCmd("ghost.service", "Id"), "\n")

		info, err := newTestBuilder(f).UnitInfo(context.Background(), "ghost.service")
		assert.Nil(t, info)
		require.ErrorIs(t, err, ErrUnknownUnit)

		var unknown *UnknownUnitError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "ghost.service", unknown.Unit)
		assert.Contains(t, err.Error(), "ghost.service")
	})

	t.Run("not found", func(t *testing.T) {
		f := newFakeRunner().
			on(showCmd("ghost.service", "Id"), "ghost.service\n").
			on(showCmd("ghost.service", "LoadState"), "not-found\n")

		_, err := newTestBuilder(f).UnitInfo(context.Background(), "ghost.service")
		require.ErrorIs(t, err, ErrUnknownUnit)
	})

	t.Run("empty name", func(t *testing.T) {
		f := newFakeRunner()

		_, err := newTestBuilder(f).UnitInfo(context.Background(), " ")
		require.ErrorIs(t, err, ErrUnknownUnit)
		assert.Empty(t, f.Calls())
	})
}

func TestUnitInfoUnsupportedType(t *testing.T) {
	f := newFakeRunner().
		on(showCmd("home.mount", "Id"), "home.mount\n").
		on(showCmd("home.mount", "LoadState"), "loaded\n")

	info, err := newTestBuilder(f).UnitInfo(context.Background(), "home.mount")
	assert.Nil(t, info)
	require.ErrorIs(t, err, ErrUnsupportedUnitType)

	var unsupported *UnsupportedUnitTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "home.mount", unsupported.ID)
	assert.Equal(t, "mount", unsupported.Type)
}

func TestUnitInfoNoPartialResult(t *testing.T) {
	f := newFakeRunner()
	scriptService(f, "nginx.service")
	f.on(showCmd("nginx.service", "StateChangeTimestamp"), "sometime\n")

	info, err := newTestBuilder(f).UnitInfo(context.Background(), "nginx.service")
	assert.Nil(t, info)
	require.ErrorIs(t, err, ErrDateParse)

	// The User query after the failing timestamp is never issued
	assert.NotContains(t, f.Calls(), showCmd("nginx.service", "User"))
}

func TestServiceInfoQueryFailure(t *testing.T) {
	f := newFakeRunner()
	scriptService(f, "nginx.service")
	f.onExit(statusCmd("nginx.service"), "", 4)

	svc, err := newTestBuilder(f).ServiceInfo(context.Background(), "nginx.service")
	assert.Nil(t, svc)

	var queryErr *UnitQueryError
	require.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "status", queryErr.Query)
	assert.ErrorIs(t, err, ErrCommand)
}

func TestStripFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"header\nline1\nline2\n", "line1\nline2\n"},
		{"header\n", ""},
		{"header only", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripFirstLine(tt.in), "input %q", tt.in)
	}
}

func TestUnitSuffix(t *testing.T) {
	tests := map[string]string{
		"nginx.service":                    "service",
		"logrotate.timer":                  "timer",
		"systemd-tmpfiles-clean.timer":     "timer",
		"getty@tty1.service":               "service",
		"dev-disk-by\\x2duuid-1234.device": "device",
		"noext":                            "",
	}
	for id, want := range tests {
		assert.Equal(t, want, unitSuffix(id), id)
	}
}

package hostinfo

import (
	"context"
	"errors"
	"sync"
)

// fakeResult is the scripted outcome of one command line
type fakeResult struct {
	out      string
	exitCode int
	noStart  bool
}

// fakeRunner answers commands from a script keyed by Command.String() and
// records every call. Unscripted commands fail as if the binary was missing.
type fakeRunner struct {
	mu      sync.Mutex
	results map[string]fakeResult
	calls   []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: make(map[string]fakeResult)}
}

func (f *fakeRunner) on(cmdline, out string) *fakeRunner {
	return f.onExit(cmdline, out, 0)
}

func (f *fakeRunner) onExit(cmdline, out string, code int) *fakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[cmdline] = fakeResult{out: out, exitCode: code}
	return f
}

func (f *fakeRunner) onNoStart(cmdline string) *fakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[cmdline] = fakeResult{noStart: true}
	return f
}

func (f *fakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRunner) Run(ctx context.Context, c Command) (string, error) {
	key := c.String()

	f.mu.Lock()
	f.calls = append(f.calls, key)
	r, ok := f.results[key]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", &CommandError{Command: key, ExitCode: -1, Err: err}
	}
	if !ok || r.noStart {
		return "", &CommandError{Command: key, ExitCode: -1, Err: errors.New("executable file not found")}
	}
	if r.exitCode != 0 {
		return r.out, &CommandError{Command: key, ExitCode: r.exitCode, Stdout: r.out, Err: errors.New("exit status")}
	}
	return r.out, nil
}

// Command lines as Systemctl renders them with default options

func showCmd(unit, prop string) string {
	return "systemctl --no-pager show --property=" + prop + " --value -- " + unit
}

func checkCmd(verb, unit string) string {
	return "systemctl --no-pager " + verb + " --quiet -- " + unit
}

func wordCmd(verb, unit string) string {
	return "systemctl --no-pager " + verb + " -- " + unit
}

func statusCmd(unit string) string {
	return "systemctl --no-pager status --full -- " + unit
}

const nginxStatus = `● nginx.service - A high performance web server and a reverse proxy server
     Loaded: loaded (/lib/systemd/system/nginx.service; enabled; vendor preset: enabled)
     Active: active (running) since Thu 2019-03-07 23:42:01 UTC; 2 days ago
   Main PID: 812 (nginx)
`

// scriptService scripts a running, enabled nginx.service
func scriptService(f *fakeRunner, unit string) {
	f.on(showCmd(unit, "Id"), "nginx.service\n").
		on(showCmd(unit, "LoadState"), "loaded\n").
		on(showCmd(unit, "Type"), "forking\n").
		on(showCmd(unit, "Description"), "A high performance web server and a reverse proxy server\n").
		on(checkCmd("is-active", unit), "").
		on(checkCmd("is-enabled", unit), "").
		on(wordCmd("is-active", unit), "active\n").
		on(wordCmd("is-enabled", unit), "enabled\n").
		on(statusCmd(unit), nginxStatus).
		on(showCmd(unit, "CanStart"), "yes\n").
		on(showCmd(unit, "CanStop"), "yes\n").
		on(showCmd(unit, "CanReload"), "no\n").
		on(showCmd(unit, "StateChangeTimestamp"), "Thu 2019-03-07 23:42:01 UTC\n").
		on(showCmd(unit, "User"), "www-data\n")
}

const logrotateTimerStatus = `○ logrotate.timer - Daily rotation of log files
     Loaded: loaded (/lib/systemd/system/logrotate.timer; disabled; vendor preset: enabled)
     Active: inactive (dead)
    Trigger: n/a
`

// scriptTimer scripts an inactive, disabled logrotate.timer
func scriptTimer(f *fakeRunner, unit string) {
	f.on(showCmd(unit, "Id"), "logrotate.timer\n").
		on(showCmd(unit, "LoadState"), "loaded\n").
		on(showCmd(unit, "Description"), "Daily rotation of log files\n").
		onExit(checkCmd("is-active", unit), "", 3).
		onExit(checkCmd("is-enabled", unit), "", 1).
		onExit(wordCmd("is-active", unit), "inactive\n", 3).
		onExit(wordCmd("is-enabled", unit), "disabled\n", 1).
		onExit(statusCmd(unit), logrotateTimerStatus, 3).
		on(showCmd(unit, "LastTriggerUSec"), "n/a\n").
		on(showCmd(unit, "NextElapseUSecRealtime"), "Fri 2019-03-08 00:00:00 UTC\n").
		on(showCmd(unit, "Unit"), "logrotate.service\n")
}

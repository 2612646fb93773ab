package hostinfo

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

// DefaultSystemctlPath is the systemctl executable used unless overridden.
const DefaultSystemctlPath = "systemctl"

// truthy is the only value systemctl prints for a true boolean property.
const truthy = "yes"

// Systemctl provides typed queries against the systemd manager for one unit
// at a time. It never changes unit state.
type Systemctl struct {
	// Path is the systemctl executable
	Path string

	// UserScope queries the calling user's manager (--user) instead of the
	// system manager
	UserScope bool

	runner CommandRunner
}

// SystemctlOption configures a Systemctl
type SystemctlOption func(*Systemctl)

// WithSystemctlPath sets the systemctl executable
func WithSystemctlPath(path string) SystemctlOption {
	return func(s *Systemctl) {
		if path != "" {
			s.Path = path
		}
	}
}

// WithUserScope selects the per-user service manager
func WithUserScope(user bool) SystemctlOption {
	return func(s *Systemctl) {
		s.UserScope = user
	}
}

// NewSystemctl creates a Systemctl that runs its queries through runner
func NewSystemctl(runner CommandRunner, opts ...SystemctlOption) *Systemctl {
	s := &Systemctl{
		Path:   DefaultSystemctlPath,
		runner: runner,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Systemctl) command(args ...string) Command {
	full := []string{"--no-pager"}
	if s.UserScope {
		full = append(full, "--user")
	}
	return Command{Name: s.Path, Args: append(full, args...)}
}

// ShowProperty returns the trimmed value of a unit property. An absent
// property yields an empty string and no error; callers check for emptiness.
func (s *Systemctl) ShowProperty(ctx context.Context, unit, name string) (string, error) {
	out, err := s.runner.Run(ctx, s.command("show", "--property="+name, "--value", "--", unit))
	if err != nil {
		return "", &UnitQueryError{Unit: unit, Query: "show " + name, Err: err}
	}
	return strings.TrimSpace(out), nil
}

// ShowPropertyBool returns true only when the property value is exactly "yes".
func (s *Systemctl) ShowPropertyBool(ctx context.Context, unit, name string) (bool, error) {
	v, err := s.ShowProperty(ctx, unit, name)
	if err != nil {
		return false, err
	}
	return v == truthy, nil
}

// ShowPropertyDate parses a timestamp property. It returns nil when the
// manager reports the timestamp as unset.
func (s *Systemctl) ShowPropertyDate(ctx context.Context, unit, name string) (*time.Time, error) {
	v, err := s.ShowProperty(ctx, unit, name)
	if err != nil {
		return nil, err
	}
	t, err := ParseTimestamp(v)
	if err != nil {
		var dateErr *DateParseError
		if errors.As(err, &dateErr) {
			dateErr.Unit = unit
			dateErr.Property = name
		}
		return nil, err
	}
	return t, nil
}

// IsActive reports whether the unit is active, from the exit status of
// systemctl is-active.
func (s *Systemctl) IsActive(ctx context.Context, unit string) (bool, error) {
	return s.check(ctx, unit, "is-active")
}

// IsEnabled reports whether the unit is enabled, from the exit status of
// systemctl is-enabled.
func (s *Systemctl) IsEnabled(ctx context.Context, unit string) (bool, error) {
	return s.check(ctx, unit, "is-enabled")
}

// ActiveStatus returns the manager's active state word (active, inactive,
// failed, ...) verbatim.
func (s *Systemctl) ActiveStatus(ctx context.Context, unit string) (string, error) {
	return s.stateWord(ctx, unit, "is-active")
}

// EnabledStatus returns the manager's enablement word (enabled, disabled,
// static, ...) verbatim.
func (s *Systemctl) EnabledStatus(ctx context.Context, unit string) (string, error) {
	return s.stateWord(ctx, unit, "is-enabled")
}

// Status returns the human-oriented multi-line status report for the unit.
// width limits the output line width; 0 means lines are never ellipsized.
func (s *Systemctl) Status(ctx context.Context, unit string, width int) (string, error) {
	args := []string{"status"}
	var env []string
	if width > 0 {
		env = []string{"COLUMNS=" + strconv.Itoa(width)}
	} else {
		args = append(args, "--full")
	}
	cmd := s.command(append(args, "--", unit)...)
	cmd.Env = env

	out, err := s.runner.Run(ctx, cmd)
	if err != nil {
		// Exit codes 1-3 mean the unit is not running (LSB status codes);
		// the report is still printed.
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode >= 1 && cmdErr.ExitCode <= 3 && strings.TrimSpace(out) != "" {
			return out, nil
		}
		return "", &UnitQueryError{Unit: unit, Query: "status", Err: err}
	}
	return out, nil
}

func (s *Systemctl) check(ctx context.Context, unit, verb string) (bool, error) {
	_, err := s.runner.Run(ctx, s.command(verb, "--quiet", "--", unit))
	if err == nil {
		return true, nil
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.Started() {
		return false, nil
	}
	return false, &UnitQueryError{Unit: unit, Query: verb, Err: err}
}

func (s *Systemctl) stateWord(ctx context.Context, unit, verb string) (string, error) {
	out, err := s.runner.Run(ctx, s.command(verb, "--", unit))
	word := strings.TrimSpace(out)
	if err != nil {
		// is-active and is-enabled exit non-zero for inactive or disabled
		// units but still print the state.
		var cmdErr *CommandError
		if !errors.As(err, &cmdErr) || !cmdErr.Started() || word == "" {
			return "", &UnitQueryError{Unit: unit, Query: verb, Err: err}
		}
	}
	return word, nil
}

package hostinfo

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// DefaultCommandTimeout bounds a single external command run by ExecRunner.
const DefaultCommandTimeout = 10 * time.Second

// Command describes one external command invocation.
type Command struct {
	// Name is the executable, resolved through PATH
	Name string
	// Args are passed to the executable verbatim, without a shell
	Args []string
	// Env entries ("KEY=value") are added to the inherited environment
	Env []string
}

// String renders the command line for logs and error messages
func (c Command) String() string {
	parts := make([]string, 0, len(c.Env)+len(c.Args)+1)
	parts = append(parts, c.Env...)
	parts = append(parts, c.Name)
	for _, arg := range c.Args {
		if arg == "" || strings.ContainsAny(arg, " \t\n\"'") {
			arg = strconv.Quote(arg)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// CommandRunner executes a single external command synchronously and
// returns its standard output.
//
// Implementations must return a *CommandError when the process cannot be
// started or exits non-zero. Whatever was captured on stdout is returned
// together with the error.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (string, error)
}

// ExecRunner is the CommandRunner backed by os/exec.
type ExecRunner struct {
	// Timeout bounds each command; zero disables the limit
	Timeout time.Duration

	// Logger receives a debug record for every executed command
	Logger *zap.Logger
}

// RunnerOption configures an ExecRunner
type RunnerOption func(*ExecRunner)

// WithCommandTimeout sets the per-command timeout
func WithCommandTimeout(d time.Duration) RunnerOption {
	return func(r *ExecRunner) {
		r.Timeout = d
	}
}

// WithLogger sets the logger used for command tracing
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *ExecRunner) {
		r.Logger = logger
	}
}

// NewExecRunner creates an ExecRunner with default settings
func NewExecRunner(opts ...RunnerOption) *ExecRunner {
	r := &ExecRunner{
		Timeout: DefaultCommandTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.Logger == nil {
		r.Logger = zap.NewNop()
	}
	return r
}

// Run starts the command, waits for it to exit and returns its stdout.
func (r *ExecRunner) Run(ctx context.Context, c Command) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	if r.Logger != nil {
		r.Logger.Debug("executed command",
			zap.String("command", c.String()),
			zap.Int("exit_code", exitCode),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	if err == nil {
		return stdout.String(), nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		exitCode = -1
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = cerr.WithSecondaryError(ctxErr, err)
	}

	return stdout.String(), &CommandError{
		Command:  c.String(),
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
	}
}

var _ CommandRunner = (*ExecRunner)(nil)

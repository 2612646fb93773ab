package hostinfo

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by hostinfo operations. Every typed error below
// matches one of these through errors.Is.
var (
	// ErrCommand indicates an external command failed to start or exited non-zero
	ErrCommand = errors.New("hostinfo: command failed")

	// ErrParse indicates command output did not have the expected structure
	ErrParse = errors.New("hostinfo: unexpected output format")

	// ErrUnknownUnit indicates the service manager does not know the unit
	ErrUnknownUnit = errors.New("hostinfo: unknown unit")

	// ErrUnsupportedUnitType indicates the unit is neither a service nor a timer
	ErrUnsupportedUnitType = errors.New("hostinfo: unsupported unit type")

	// ErrDateParse indicates a manager timestamp could not be parsed
	ErrDateParse = errors.New("hostinfo: timestamp parse")

	// ErrNoFragment indicates a unit has no unit file that could be watched
	ErrNoFragment = errors.New("hostinfo: unit has no fragment file")

	// ErrWatchUnsupported indicates unit watching is not available on this platform
	ErrWatchUnsupported = errors.New("hostinfo: watch not supported on this platform")
)

// CommandError represents an external command that failed to start or
// exited with a non-zero status.
type CommandError struct {
	// Command is the command line that was executed
	Command string
	// ExitCode is the process exit status, or -1 if none is available
	ExitCode int
	// Stdout holds whatever the process wrote to standard output
	Stdout string
	// Stderr holds whatever the process wrote to standard error
	Stderr string
	// Err is the underlying error from the process invocation
	Err error
}

// Error returns a formatted error message
func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "command %q", e.Command)
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " exited with status %d", e.ExitCode)
	} else {
		b.WriteString(" failed")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		fmt.Fprintf(&b, " (stderr: %s)", stderr)
	}
	return b.String()
}

// Unwrap returns the underlying error for error chain inspection
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCommand
func (e *CommandError) Is(target error) bool {
	return target == ErrCommand
}

// Started reports whether the process ran far enough to produce an exit status
func (e *CommandError) Started() bool {
	return e.ExitCode >= 0
}

// UnitQueryError represents a failed service manager query for a unit.
type UnitQueryError struct {
	// Unit is the unit name that was queried
	Unit string
	// Query names what was asked, e.g. "show Id" or "is-active"
	Query string
	// Err is the underlying error, usually a *CommandError
	Err error
}

// Error returns a formatted error message
func (e *UnitQueryError) Error() string {
	return fmt.Sprintf("query %s of unit %q: %v", e.Query, e.Unit, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *UnitQueryError) Unwrap() error {
	return e.Err
}

// ParseError represents command output that did not match the expected pattern.
type ParseError struct {
	// Command is the command whose output was parsed
	Command string
	// Expected describes the structure that was looked for
	Expected string
	// Output is the raw text that failed to match
	Output string
}

// Error returns a formatted error message
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse output of %q: %s not found", e.Command, e.Expected)
}

// Is reports whether target is ErrParse
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// UnknownUnitError is returned when the requested unit has no resolvable Id.
type UnknownUnitError struct {
	Unit string
}

// Error returns a formatted error message
func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unable to get Id of %s: unit seems to be unknown", e.Unit)
}

// Is reports whether target is ErrUnknownUnit
func (e *UnknownUnitError) Is(target error) bool {
	return target == ErrUnknownUnit
}

// UnsupportedUnitTypeError is returned for units that are neither services nor timers.
type UnsupportedUnitTypeError struct {
	// ID is the unit Id reported by the manager
	ID string
	// Type is the offending suffix, e.g. "mount"
	Type string
}

// Error returns a formatted error message
func (e *UnsupportedUnitTypeError) Error() string {
	return fmt.Sprintf("unable to get info for %s: unsupported unit type %q", e.ID, e.Type)
}

// Is reports whether target is ErrUnsupportedUnitType
func (e *UnsupportedUnitTypeError) Is(target error) bool {
	return target == ErrUnsupportedUnitType
}

// DateParseError is returned when a timestamp is neither unset nor parseable.
type DateParseError struct {
	// Unit and Property identify where the value came from; both may be empty
	// when the value was parsed directly.
	Unit     string
	Property string
	// Value is the raw timestamp text
	Value string
	// Err is the last parse failure, if any
	Err error
}

// Error returns a formatted error message
func (e *DateParseError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("parse timestamp %s of unit %q: invalid value %q", e.Property, e.Unit, e.Value)
	}
	return fmt.Sprintf("parse timestamp: invalid value %q", e.Value)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DateParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDateParse
func (e *DateParseError) Is(target error) bool {
	return target == ErrDateParse
}

// MultiError aggregates multiple errors from bulk operations
type MultiError struct {
	// Errors contains all accumulated errors
	Errors []error
}

// Error returns a summary of the accumulated errors
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred", len(m.Errors))
}

// Add appends an error to the collection if it's not nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.Errors
}

// Err returns nil if no errors occurred, otherwise returns the MultiError itself
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}

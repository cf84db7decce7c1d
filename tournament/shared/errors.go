/* errors.go
 * Fatal error kinds. Every one of them aborts the tournament; they only differ in when they can be raised:
 * configuration errors before anything runs, preflight errors while checking team directories, and runtime state
 * errors at the point the inconsistent state is found
 */

package shared

import (
	"errors"
	"fmt"
)

// ConfigurationError is raised for unknown parameters, malformed arguments and inconsistent settings
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// PreflightError is raised when a team directory is missing a required file
type PreflightError struct {
	Path string
	Msg  string
}

func (e *PreflightError) Error() string { return e.Msg }

// RuntimeStateError is raised when files on disk do not match what the tournament expects
type RuntimeStateError struct {
	Msg string
	Err error
}

func (e *RuntimeStateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *RuntimeStateError) Unwrap() error { return e.Err }

// NewConfigurationError formats a ConfigurationError
func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// NewPreflightError formats a PreflightError for the given path
func NewPreflightError(path string, format string, args ...any) error {
	return &PreflightError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// NewRuntimeStateError wraps err (may be nil) into a RuntimeStateError
func NewRuntimeStateError(err error, format string, args ...any) error {
	return &RuntimeStateError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// IsFatal reports whether err is one of the tournament's own fatal error kinds
func IsFatal(err error) bool {
	var cfgErr *ConfigurationError
	var preErr *PreflightError
	var rtErr *RuntimeStateError
	return errors.As(err, &cfgErr) || errors.As(err, &preErr) || errors.As(err, &rtErr)
}

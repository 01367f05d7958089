package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Exit codes returned by the programs.
const (
	ExitSuccess      = 0
	ExitErrorGeneric = 1
	// ExitErrorConfig shares status 1 with generic failures; scripts that
	// wrap the benchmarks only distinguish success from failure.
	ExitErrorConfig   = 1
	ExitErrorCanceled = 130
)

// Validation messages for non-positive counts.
const (
	MsgWorkers = "Number of workers must be greater than 0."
	MsgTasks   = "Number of tasks must be greater than 0."
)

// ConfigError reports an invalid user-supplied configuration value.
type ConfigError struct {
	// Field names the flag or setting at fault, if known.
	Field string
	// Message is printed verbatim to the user.
	Message string
	// Reported is set when the message was already shown, e.g. by the
	// flag package together with the usage text.
	Reported bool
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(field, format string, a ...any) error {
	return ConfigError{Field: field, Message: fmt.Sprintf(format, a...)}
}

// RunError wraps a failure that happened after work started.
type RunError struct {
	// Benchmark is the program that failed.
	Benchmark string
	Cause     error
}

func (e RunError) Error() string { return fmt.Sprintf("%s: %v", e.Benchmark, e.Cause) }

func (e RunError) Unwrap() error { return e.Cause }

// WrapError wraps err with context, or returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var ce ConfigError
	return errors.As(err, &ce)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case IsConfigError(err):
		return ExitErrorConfig
	case IsContextError(err):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}

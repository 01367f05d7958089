package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("workers", "Number of %s must be greater than 0.", "workers")
	if err.Error() != "Number of workers must be greater than 0." {
		t.Errorf("unexpected message %q", err.Error())
	}
	var ce ConfigError
	if !errors.As(fmt.Errorf("parse: %w", err), &ce) || ce.Field != "workers" {
		t.Errorf("expected wrapped ConfigError for field workers, got %+v", ce)
	}
}

func TestRunErrorUnwraps(t *testing.T) {
	cause := errors.New("worker crashed")
	err := RunError{Benchmark: "cpu-fanout", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("RunError should unwrap to its cause")
	}
	if err.Error() != "cpu-fanout: worker crashed" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "ignored") != nil {
		t.Error("WrapError(nil) should be nil")
	}
	base := errors.New("base")
	wrapped := WrapError(base, "step %d", 2)
	if !errors.Is(wrapped, base) || wrapped.Error() != "step 2: base" {
		t.Errorf("unexpected wrapped error %v", wrapped)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"config", NewConfigError("tasks", "bad"), ExitErrorConfig},
		{"canceled", fmt.Errorf("run: %w", context.Canceled), ExitErrorCanceled},
		{"deadline", context.DeadlineExceeded, ExitErrorCanceled},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

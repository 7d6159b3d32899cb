// Package errors defines the agent's small error taxonomy. Conditions that
// the pipeline recovers from locally — a malformed line, an unknown level,
// an absent latency, a bus-full drop — are never represented as error
// values at all; they are tallied as counters on the stats buffer. The
// types here exist for the few conditions that really do need to propagate:
// a tailer failure worth logging, and configuration/CLI validation.
package errors

import (
	"fmt"
	"time"
)

// ErrorType classifies an error for logging/metrics grouping.
type ErrorType string

const (
	ErrorTypeTailFileNotFound ErrorType = "tail_file_not_found"
	ErrorTypeTailAccessDenied ErrorType = "tail_access_denied"
	ErrorTypeTailIO           ErrorType = "tail_io"
	ErrorTypeConfig           ErrorType = "config"
)

// TailError wraps an OS-level failure encountered while tailing a path,
// carrying enough context for the debug log without forcing the tailer's
// caller to inspect the underlying error itself.
type TailError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewTailError creates a TailError, classifying it by the underlying error.
func NewTailError(op, path string, err error) *TailError {
	return &TailError{
		Type:       classifyTailError(err),
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *TailError) Error() string {
	return fmt.Sprintf("tail %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/errors.As.
func (e *TailError) Unwrap() error {
	return e.Underlying
}

func classifyTailError(err error) ErrorType {
	if err == nil {
		return ErrorTypeTailIO
	}
	if isNotExist(err) {
		return ErrorTypeTailFileNotFound
	}
	if isPermission(err) {
		return ErrorTypeTailAccessDenied
	}
	return ErrorTypeTailIO
}

// ConfigError represents an invalid CLI flag or configuration field.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error.
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %q): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError aggregates multiple independent validation failures so a CLI
// can report every invalid flag in one diagnostic instead of failing fast
// on the first.
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error, dropping any nil entries.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors, supporting Go 1.20+ multi-error unwrapping.
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// HasErrors reports whether the aggregate is non-empty.
func (e *MultiError) HasErrors() bool {
	return e != nil && len(e.Errors) > 0
}

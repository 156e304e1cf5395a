// Package errors defines the structured error type used across this module's
// packages to report failures that should reach the CLI as a non-zero exit
// with a stable diagnostic code.
package errors

import "fmt"

// Error codes surfaced by the minimizer's input/output framing. The
// algorithmic core (partition, reach, minimize) has no failure modes of its
// own; every code here originates in the automaton reader or writer.
const (
	CodeUnknown               = "UNKNOWN_ERROR"
	CodeMalformedInput        = "MALFORMED_INPUT"
	CodeInconsistentAutomaton = "INCONSISTENT_AUTOMATON"
	CodeIOFailure             = "IO_FAILURE"
)

// AppError is an error carrying a stable code alongside a human-readable
// message and an optional wrapped cause.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError with the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates an AppError with no wrapped cause.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap creates an AppError that wraps an existing error.
func Wrap(code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Common error instances for the kinds this module actually raises.
var (
	ErrMalformedInput        = New(CodeMalformedInput, "malformed input")
	ErrInconsistentAutomaton = New(CodeInconsistentAutomaton, "inconsistent automaton")
	ErrIOFailure             = New(CodeIOFailure, "i/o failure")
)

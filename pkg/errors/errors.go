// Package errors provides structured error types for the flowline layout engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the pipeline and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Each code maps to one failure class of the layout pipeline:
//   - VALIDATION_ERROR: malformed input graph or flow table
//   - CYCLE_RESOLUTION_ERROR: cycle-breaking iteration bound exceeded
//   - LAYOUT_ERROR: unknown positioning mode or a corrupted ordering
//   - OPTIMIZATION_ERROR: solver infeasible, unbounded, or timed out
//   - GEOMETRY_ERROR: degenerate curve parameters or mismatched coordinates
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "edge %s->%s has no value", src, dst)
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeOptimization, cause, "solve LP for %d nodes", n)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the failure classes of a layout run.
const (
	// Input failures, raised before any mutation of the working graph.
	ErrCodeValidation Code = "VALIDATION_ERROR"

	// Structural failures during graph restructuring.
	ErrCodeCycleResolution Code = "CYCLE_RESOLUTION_ERROR"
	ErrCodeLayout          Code = "LAYOUT_ERROR"

	// Positioning failures surfaced from the solver.
	ErrCodeOptimization Code = "OPTIMIZATION_ERROR"

	// Geometry construction failures.
	ErrCodeGeometry Code = "GEOMETRY_ERROR"

	// Unexpected internal errors.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

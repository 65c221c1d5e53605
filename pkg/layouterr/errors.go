// Package layouterr provides structured error types for the layout engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, API, and engine internals
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes are grouped by category:
//   - INVALID_*: input validation failures
//   - NOT_FOUND, RUN_NOT_FOUND: missing resources
//   - CONSTRAINT_INFEASIBLE, INVARIANT_VIOLATION, NOT_ACYCLIC,
//     NO_ENTER_EDGE, SIMPLEX_DID_NOT_CONVERGE: layout computation failures
//   - NETWORK_ERROR, TIMEOUT: network failures
//   - INTERNAL_ERROR, UNSUPPORTED: unexpected internal errors
//
// # Usage
//
//	err := layouterr.New(layouterr.ErrCodeInvalidInput, "node %d has negative width", id)
//	if layouterr.Is(err, layouterr.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := layouterr.Wrap(layouterr.ErrCodeInternal, origErr, "stage %s failed", stage)
package layouterr

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidGraph  Code = "INVALID_GRAPH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeRunNotFound Code = "RUN_NOT_FOUND"

	// Layout computation errors
	ErrCodeConstraintInfeasible Code = "CONSTRAINT_INFEASIBLE"
	ErrCodeInvariantViolation   Code = "INVARIANT_VIOLATION"
	ErrCodeNotAcyclic           Code = "NOT_ACYCLIC"
	ErrCodeNoEnterEdge          Code = "NO_ENTER_EDGE"
	ErrCodeSimplexDidNotConverge Code = "SIMPLEX_DID_NOT_CONVERGE"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

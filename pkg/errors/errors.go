// Package errors provides structured error types for dlvis.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP service and the library
//   - Machine-readable error codes for programmatic handling
//   - A mapping from codes to the three layout failure categories
//
// # Error Codes
//
// Layout failures fall into three categories:
//   - Structural: START_NOT_FOUND, DANGLING_RELATION, INVALID_GRAPH
//   - Infeasible: INFEASIBLE (required constraints cannot hold together)
//   - Internal: INTERNAL_ERROR (a broken invariant inside the engine)
//
// Input handling adds PARSE_ERROR, INVALID_INPUT and INVALID_FORMAT.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeStartNotFound, "start node %d not found", id)
//	if errors.Is(err, errors.ErrCodeStartNotFound) {
//	    // Handle missing start node
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInfeasible, solverErr, "alignment %d left of %d", a, b)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeParse         Code = "PARSE_ERROR"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Structural errors, detected before any constraint is built
	ErrCodeInvalidGraph     Code = "INVALID_GRAPH"
	ErrCodeStartNotFound    Code = "START_NOT_FOUND"
	ErrCodeDanglingRelation Code = "DANGLING_RELATION"

	// Solver errors
	ErrCodeInfeasible Code = "INFEASIBLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Category groups codes by how a layout call failed.
type Category string

const (
	CategoryNone       Category = ""
	CategoryInput      Category = "input"
	CategoryStructural Category = "structural"
	CategoryInfeasible Category = "infeasible"
	CategoryInternal   Category = "internal"
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

// CategoryOf reports which failure category err belongs to.
// Errors without a code are internal; nil has no category.
func CategoryOf(err error) Category {
	if err == nil {
		return CategoryNone
	}
	switch GetCode(err) {
	case ErrCodeStartNotFound, ErrCodeDanglingRelation, ErrCodeInvalidGraph:
		return CategoryStructural
	case ErrCodeInfeasible:
		return CategoryInfeasible
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeParse, ErrCodeFileNotFound:
		return CategoryInput
	default:
		return CategoryInternal
	}
}

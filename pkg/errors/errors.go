// Package errors provides structured error types for tickergrid.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for the HTTP error envelope
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *NOT_FOUND: Resource not found
//   - STORAGE_*, NETWORK_*: Persistence backend failures
//   - INTERNAL_*: Unexpected internal errors
//
// The layout engine itself never returns errors; codes are used at the
// boundaries (HTTP, configuration, storage).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSection, "unknown section: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidSection) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "failed to save %s", key)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidPanel      Code = "INVALID_PANEL"
	ErrCodeInvalidSection    Code = "INVALID_SECTION"
	ErrCodeInvalidBreakpoint Code = "INVALID_BREAKPOINT"
	ErrCodeInvalidTicker     Code = "INVALID_TICKER"
	ErrCodeInvalidSession    Code = "INVALID_SESSION"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeInvalidKey        Code = "INVALID_KEY"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeSectionNotFound Code = "SECTION_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Persistence errors
	ErrCodeStorage Code = "STORAGE_ERROR"
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

// Is reports whether err carries code anywhere in its chain.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error without its code
// prefix or cause. Plain errors are returned as-is.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// statuses maps codes to the HTTP status of the API error envelope. Codes
// not listed map to 500.
var statuses = map[Code]int{
	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidPanel:      http.StatusBadRequest,
	ErrCodeInvalidSection:    http.StatusBadRequest,
	ErrCodeInvalidBreakpoint: http.StatusBadRequest,
	ErrCodeInvalidTicker:     http.StatusBadRequest,
	ErrCodeInvalidSession:    http.StatusBadRequest,
	ErrCodeInvalidKey:        http.StatusBadRequest,
	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeSectionNotFound:   http.StatusNotFound,
	ErrCodeFileNotFound:      http.StatusNotFound,
	ErrCodeNetwork:           http.StatusServiceUnavailable,
	ErrCodeTimeout:           http.StatusGatewayTimeout,
	ErrCodeUnsupported:       http.StatusNotImplemented,
}

// HTTPStatus maps an error code to the status returned by the API.
func HTTPStatus(code Code) int {
	if status, ok := statuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether err was caused by the caller's input rather
// than by storage or the server.
func IsClientError(err error) bool {
	status := HTTPStatus(GetCode(err))
	return status >= 400 && status < 500
}

// Package errors provides structured error types for timeweave.
//
// Every failure raised by the core carries a machine-readable [Code] so that
// the CLI and the HTTP API can tell malformed input data apart from lookup
// failures and ordinary I/O problems.
//
// # Error Codes
//
// Codes fall into four groups:
//   - data consistency: the identity records contradict each other
//     (MISSING_RECIPROCAL, MARRIAGE_DATE_MISMATCH, UNION_COLLISION,
//     PARENT_CONFLICT, DUPLICATE_IDENTITY)
//   - lookup: a required cross-reference resolves to nothing
//     (LOOKUP_FAILED, UNKNOWN_ORIGIN)
//   - parse: malformed dates or documents (INVALID_DATE, INVALID_DOCUMENT)
//   - ambient: INVALID_INPUT, FILE_NOT_FOUND, INTERNAL_ERROR
//
// None of them are retried. A data-consistency or lookup error during graph
// construction aborts the whole run.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingReciprocal, "%s is not married to %s", b, a)
//	if errors.Is(err, errors.ErrCodeMissingReciprocal) {
//	    // malformed input
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidDocument, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Data-consistency errors
	ErrCodeMissingReciprocal    Code = "MISSING_RECIPROCAL"
	ErrCodeMarriageDateMismatch Code = "MARRIAGE_DATE_MISMATCH"
	ErrCodeUnionCollision       Code = "UNION_COLLISION"
	ErrCodeParentConflict       Code = "PARENT_CONFLICT"
	ErrCodeDuplicateIdentity    Code = "DUPLICATE_IDENTITY"

	// Lookup errors
	ErrCodeLookupFailed  Code = "LOOKUP_FAILED"
	ErrCodeUnknownOrigin Code = "UNKNOWN_ORIGIN"

	// Parse errors
	ErrCodeInvalidDate     Code = "INVALID_DATE"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"

	// Ambient errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
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

// IsDataConsistency reports whether err signals contradictory identity records.
func IsDataConsistency(err error) bool {
	switch GetCode(err) {
	case ErrCodeMissingReciprocal, ErrCodeMarriageDateMismatch, ErrCodeUnionCollision,
		ErrCodeParentConflict, ErrCodeDuplicateIdentity:
		return true
	}
	return false
}

// IsLookup reports whether err signals a cross-reference that resolved to nothing.
func IsLookup(err error) bool {
	switch GetCode(err) {
	case ErrCodeLookupFailed, ErrCodeUnknownOrigin:
		return true
	}
	return false
}

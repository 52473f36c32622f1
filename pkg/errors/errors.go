// Package errors defines the coded errors brushlink returns at its edges.
//
// Configuration loading, host events, file reads and session lookups fail
// with an [*Error] that carries a [Code]. The CLI prints [UserMessage] and the
// HTTP server answers with [HTTPStatus] and the code string, so clients can
// branch on INVALID_EVENT or SESSION_NOT_FOUND without parsing messages.
//
// Data problems inside the linked-view engine are not errors: a missing
// value skips placement, a degenerate domain maps to the midpoint and an
// unknown identity simply never matches.
//
// Codes are grouped by prefix. INVALID_* rejects input, *NOT_FOUND names a
// missing resource and INTERNAL_ERROR covers the rest.
//
//	err := errors.New(errors.ErrCodeInvalidDimension, "unknown field: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidDimension) {
//	    // reject the axis change
//	}
//
//	err = errors.Wrap(errors.ErrCodeFileNotFound, cause, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is the stable, machine-readable part of an [Error].
type Code string

const (
	// Rejected input.
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle     Code = "INVALID_STYLE"
	ErrCodeInvalidEvent     Code = "INVALID_EVENT"
	ErrCodeInvalidView      Code = "INVALID_VIEW"

	// Missing resources.
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a [Code] with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is like [New] but records cause for errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix from coded errors and returns other
// errors unchanged.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the HTTP status used by the API server.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeInvalidDimension,
		ErrCodeInvalidFormat, ErrCodeInvalidStyle, ErrCodeInvalidEvent, ErrCodeInvalidView:
		return 400
	case ErrCodeNotFound, ErrCodeFileNotFound, ErrCodeSessionNotFound:
		return 404
	case ErrCodeUnsupported:
		return 501
	default:
		return 500
	}
}

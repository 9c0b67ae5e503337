package campusqa

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT = "conflict"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"

	// Crawl error taxonomy.
	ENETWORK = "network" // connection, timeout or HTTP status failure
	ERENDER  = "render"  // browser engine failure or render timeout
	EEXTRACT = "extract" // malformed content, e.g. a corrupt PDF
	EIO      = "io"      // local filesystem failure
)

// Error represents an application-specific error.
type Error struct {
	Code    string
	Message string

	err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("campusqa error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the error wrapped with %w, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// Errorf is a helper function to return an Error with a given code and
// formatted message. A single %w verb in format is preserved for errors.Is.
func Errorf(code string, format string, args ...any) *Error {
	wrapped := fmt.Errorf(format, args...)
	return &Error{
		Code:    code,
		Message: wrapped.Error(),
		err:     errors.Unwrap(wrapped),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

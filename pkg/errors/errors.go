package errors

import (
	"errors"
	"fmt"
)

// Exit codes reported to the shell when an error reaches the CLI boundary.
const (
	ExitInternal   = 1
	ExitValidation = 2
	ExitNotFound   = 3
	ExitConflict   = 4
	ExitDataError  = 5
)

// Error represents a typed domain error with a CLI exit code.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Exit    int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, exit int, message string) *Error {
	return &Error{Code: code, Exit: exit, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, exit int, message string) *Error {
	return &Error{Code: code, Exit: exit, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound       = New("NOT_FOUND", ExitNotFound, "resource not found")
	ErrConflict       = New("CONFLICT", ExitConflict, "conflict")
	ErrValidation     = New("VALIDATION_ERROR", ExitValidation, "validation failed")
	ErrInternal       = New("INTERNAL_ERROR", ExitInternal, "internal error")
	ErrData           = New("DATA_ERROR", ExitDataError, "invalid stored data")
	ErrInvalidWeights = New("INVALID_WEIGHTS", ExitValidation, "invalid category weights")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Exit, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// HasCode reports whether err carries the same code as target.
func HasCode(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == target.Code
}

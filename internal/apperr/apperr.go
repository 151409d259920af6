// Package apperr provides coded errors shared by the command line and the
// HTTP API, so both can tell bad input apart from internal failures.
//
//	err := apperr.New(apperr.CodeInvalidFormat, "unsupported format %q", f)
//	if apperr.Is(err, apperr.CodeInvalidFormat) {
//	    // reject the request
//	}
package apperr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidInput   Code = "INVALID_INPUT"
	CodeInvalidFormat  Code = "INVALID_FORMAT"
	CodeInvalidProject Code = "INVALID_PROJECT"
	CodeFileNotFound   Code = "FILE_NOT_FOUND"
	CodeUnsupported    Code = "UNSUPPORTED"
	CodeInternal       Code = "INTERNAL_ERROR"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode extracts the code of the outermost *Error, or "" if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix. For errors that
// carry a cause the cause is appended.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

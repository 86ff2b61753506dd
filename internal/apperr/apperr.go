package apperr

import (
	"errors"
	"fmt"
)

// Error carries a stable machine code alongside the human message so that
// handlers can map domain failures to HTTP statuses in one place.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func InvalidArg(msg string) error { return New(CodeInvalidArgument, msg) }
func NotFound(msg string) error   { return New(CodeNotFound, msg) }
func Forbidden(msg string) error  { return New(CodePermissionDenied, msg) }
func Unauthorized(msg string) error {
	return New(CodeUnauthenticated, msg)
}
func Conflict(msg string) error { return New(CodeConflict, msg) }
func Verification(msg string) error {
	return New(CodeVerificationFailed, msg)
}
func Internal(msg string) error { return New(CodeInternal, msg) }

// CodeOf extracts the code from any error in the chain, CodeUnknown otherwise.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

func Is(err error, code Code) bool { return CodeOf(err) == code }

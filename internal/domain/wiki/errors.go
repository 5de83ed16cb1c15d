package wiki

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies wiki failures for the transport layer.
type ErrorCode string

const (
	CodeValidation ErrorCode = "validation"
	CodeNotFound   ErrorCode = "not_found"
	CodeConflict   ErrorCode = "conflict"
	CodeForbidden  ErrorCode = "forbidden"
	CodeUnsuitable ErrorCode = "unsuitable"
	CodeInternal   ErrorCode = "internal"
)

var (
	// ErrNoMatch means no provider returned data for a requested integration.
	ErrNoMatch = errors.New("no matching integration data")
	// ErrUnknownIntegration means the integration key is not in the catalog.
	ErrUnknownIntegration = errors.New("unknown integration")
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func CodeOf(err error) ErrorCode {
	var wErr *Error
	if !errors.As(err, &wErr) {
		return ""
	}
	return wErr.Code
}

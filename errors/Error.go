package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error is the coded error used across the ledger. The code classifies the
// failure, data optionally carries structured detail such as a reject reason
// and is reachable with As.
type Error struct {
	code    ERR
	message string
	wrapped error
	data    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	var sb strings.Builder

	sb.WriteString(e.code.String())
	sb.WriteString(": ")
	sb.WriteString(e.message)

	if e.data != nil {
		fmt.Fprintf(&sb, " [%s]", e.data)
	}

	if e.wrapped != nil {
		sb.WriteString(": ")
		sb.WriteString(e.wrapped.Error())
	}

	return sb.String()
}

// Is matches any *Error with the same code. The standard library walks the
// wrapped chain, so a code anywhere in it matches.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}

	return e.code == t.code
}

// As exposes the attached data, for example *RejectData.
func (e *Error) As(target any) bool {
	if e == nil || e.data == nil {
		return false
	}

	return errors.As(e.data, target)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.wrapped
}

func (e *Error) Code() ERR {
	if e == nil {
		return ERR_UNKNOWN
	}

	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}

	return e.message
}

// WithData attaches structured data and returns e.
func (e *Error) WithData(data error) *Error {
	e.data = data
	return e
}

// New creates a coded error. A trailing error param is wrapped rather than
// formatted into the message.
func New(code ERR, message string, params ...any) *Error {
	var wrapped error

	if n := len(params); n > 0 {
		if err, ok := params[n-1].(error); ok {
			wrapped = err
			params = params[:n-1]
		}
	}

	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}

	return &Error{
		code:    code,
		message: message,
		wrapped: wrapped,
	}
}

// Join keeps every error reachable with Is, As and RejectReason.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

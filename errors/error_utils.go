// Package errors provides the coded error type used by the ledger together
// with helpers for telling consensus rejections apart from faults.
package errors

import (
	"context"
	"errors"
)

func code(err error) (ERR, bool) {
	var tErr *Error
	if err == nil || !As(err, &tErr) {
		return ERR_UNKNOWN, false
	}

	return tErr.Code(), true
}

// IsRetryableError reports whether a failure may go away on its own. A
// rejection is final for the chain state it was checked against.
func IsRetryableError(err error) bool {
	if IsContextError(err) {
		return false
	}

	c, ok := code(err)
	if !ok {
		return false
	}

	return c == ERR_SERVICE_UNAVAILABLE || c == ERR_STORAGE_UNAVAILABLE || c == ERR_KAFKA_ERROR
}

// IsStorageFault is true for errors raised by a backing store itself.
func IsStorageFault(err error) bool {
	c, ok := code(err)
	return ok && c >= storageRangeStart && c <= storageRangeEnd
}

// IsConfigurationError marks deployment problems that must stop processing.
func IsConfigurationError(err error) bool {
	return Is(err, ErrConfiguration)
}

func IsContextError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	return Is(err, ErrContextCanceled)
}

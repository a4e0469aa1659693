// Package retry runs an operation until it succeeds, the attempts run out or
// the context is cancelled.
package retry

import (
	"context"
	"time"

	"github.com/bsv-blockchain/utxoledger/ulogger"
)

type policy struct {
	attempts   int
	multiplier int
	unit       time.Duration
	label      string
	retryable  func(error) bool
}

type Option func(*policy)

func WithRetryCount(n int) Option {
	return func(p *policy) { p.attempts = n }
}

func WithBackoffMultiplier(m int) Option {
	return func(p *policy) { p.multiplier = m }
}

func WithBackoffDurationType(d time.Duration) Option {
	return func(p *policy) { p.unit = d }
}

// WithMessage prefixes the warning logged after each failed attempt.
func WithMessage(msg string) Option {
	return func(p *policy) { p.label = msg }
}

// WithRetryable gives up at the first error f reports as permanent.
func WithRetryable(f func(error) bool) Option {
	return func(p *policy) { p.retryable = f }
}

// Retry calls f until it succeeds, returning the last result and error once
// the attempts are used up. Each failure except the last is logged and
// followed by a Backoff.
func Retry[T any](ctx context.Context, logger ulogger.Logger, f func() (T, error), opts ...Option) (T, error) {
	p := policy{attempts: 3, multiplier: 2, unit: time.Second, label: "retrying"}
	for _, o := range opts {
		o(&p)
	}

	var zero T

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := f()

		switch {
		case err == nil:
			return result, nil
		case attempt+1 >= p.attempts:
			return result, err
		case p.retryable != nil && !p.retryable(err):
			return result, err
		}

		logger.Warnf("%s (attempt %d/%d): %v", p.label, attempt+1, p.attempts, err)

		if err := Backoff(ctx, attempt, p.multiplier, p.unit); err != nil {
			return zero, err
		}
	}
}

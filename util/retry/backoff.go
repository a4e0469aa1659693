package retry

import (
	"context"
	"time"
)

// delay is the pause after the given zero based failed attempt. It grows
// linearly: unit, unit*(1+multiplier), unit*(1+2*multiplier) and so on.
func delay(attempt, multiplier int, unit time.Duration) time.Duration {
	return time.Duration(multiplier*attempt+1) * unit
}

// sleep waits for d or until ctx is done. Tests swap it out.
var sleep = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Backoff sleeps for the delay that follows attempt.
func Backoff(ctx context.Context, attempt, multiplier int, unit time.Duration) error {
	return sleep(ctx, delay(attempt, multiplier, unit))
}

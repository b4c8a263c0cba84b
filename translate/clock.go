package translate

import (
	"context"
	"time"
)

// Clock is the time source used for staggering and pacing.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the wall clock.
var SystemClock Clock = realClock{}

// sleep waits for d on clock, returning early with ctx's error if ctx is
// done first.
func sleep(ctx context.Context, clock Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(d):
		return nil
	}
}

// sleepUntil waits until the clock reaches t.
func sleepUntil(ctx context.Context, clock Clock, t time.Time) error {
	return sleep(ctx, clock, t.Sub(clock.Now()))
}

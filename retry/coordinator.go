package retry

import (
	"context"
	"time"
)

// Defaults applied by New for zero-valued parameters.
const (
	DefaultDelay   = 1 * time.Second
	DefaultBackoff = 1.0
	DefaultTimeout = 30 * time.Second
)

// Coordinator re-invokes an operation on retryable failure. It is
// configuration, not state: every Do call keeps its own attempt bookkeeping,
// so one Coordinator may serve many concurrent requests.
type Coordinator struct {
	// Delay is the initial wait between attempts.
	Delay time.Duration
	// Backoff multiplies the delay after each failed attempt.
	Backoff float64
	// Timeout is the wall-clock budget for the whole sequence of attempts.
	Timeout time.Duration
	// Decider classifies failures; nil means DefaultDecider.
	Decider Decider
}

// New creates a Coordinator, substituting defaults for zero values.
// A backoff below 1 is treated as 1 (constant delay).
func New(delay time.Duration, backoff float64, timeout time.Duration) *Coordinator {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if backoff < 1 {
		backoff = DefaultBackoff
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Coordinator{Delay: delay, Backoff: backoff, Timeout: timeout}
}

// Do invokes op, retrying retryable failures until op succeeds, a
// non-retryable failure occurs, or the wall-clock budget elapses. The last
// failure is returned unchanged when the budget is exhausted. The sleep
// between attempts honors ctx cancellation.
func (c *Coordinator) Do(ctx context.Context, op func() error) error {
	delay := c.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	backoff := c.Backoff
	if backoff < 1 {
		backoff = DefaultBackoff
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	decider := c.Decider
	if decider == nil {
		decider = DefaultDecider
	}

	deadline := time.Now().Add(timeout)

	for {
		err := op()
		if err == nil {
			return nil
		}
		if !decider.Decide(err) {
			return err
		}
		if time.Now().Add(delay).After(deadline) {
			return err
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		delay = time.Duration(float64(delay) * backoff)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTimeoutError is retryable via the Timeout category.
type fakeTimeoutError struct{ msg string }

func (e *fakeTimeoutError) Error() string { return e.msg }
func (e *fakeTimeoutError) Timeout() bool { return true }

// fakeStatusError is retryable when its status is in the retryable set.
type fakeStatusError struct{ status int }

func (e *fakeStatusError) Error() string   { return "http error" }
func (e *fakeStatusError) StatusCode() int { return e.status }

func TestDoSucceedsAfterKRetryableFailures(t *testing.T) {
	const k = 3
	calls := 0
	op := func() error {
		calls++
		if calls <= k {
			return &fakeTimeoutError{msg: "read timeout"}
		}
		return nil
	}

	c := New(time.Millisecond, 1.0, time.Second)
	err := c.Do(context.Background(), op)

	require.NoError(t, err)
	assert.Equal(t, k+1, calls)
}

func TestDoReturnsImmediatelyOnSuccess(t *testing.T) {
	calls := 0
	c := New(time.Millisecond, 2.0, time.Second)
	err := c.Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoDoesNotRetryPermanentFailure(t *testing.T) {
	permanent := errors.New("bad credentials")
	calls := 0

	c := New(time.Millisecond, 1.0, time.Second)
	err := c.Do(context.Background(), func() error {
		calls++
		return permanent
	})

	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestDoSurfacesLastErrorWhenBudgetExhausted(t *testing.T) {
	retryable := &fakeTimeoutError{msg: "dial timeout"}
	calls := 0

	c := New(50*time.Millisecond, 1.0, 10*time.Millisecond)
	start := time.Now()
	err := c.Do(context.Background(), func() error {
		calls++
		return retryable
	})

	assert.Equal(t, retryable, err)
	assert.GreaterOrEqual(t, calls, 1)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDoRetriesRetryableStatuses(t *testing.T) {
	calls := 0
	c := New(time.Millisecond, 1.0, time.Second)
	err := c.Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return &fakeStatusError{status: 429}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoDoesNotRetryClientErrorStatuses(t *testing.T) {
	calls := 0
	c := New(time.Millisecond, 1.0, time.Second)
	err := c.Do(context.Background(), func() error {
		calls++
		return &fakeStatusError{status: 404}
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(time.Minute, 1.0, time.Hour)
	err := c.Do(ctx, func() error {
		return &fakeTimeoutError{msg: "dial timeout"}
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoBackoffGrowsDelay(t *testing.T) {
	retryable := &fakeTimeoutError{msg: "timeout"}
	calls := 0

	// Delay 10ms doubling each attempt inside a 45ms budget allows the
	// sleeps 10ms + 20ms but not the 40ms one.
	c := New(10*time.Millisecond, 2.0, 45*time.Millisecond)
	err := c.Do(context.Background(), func() error {
		calls++
		return retryable
	})

	assert.Equal(t, retryable, err)
	assert.Equal(t, 3, calls)
}

func TestNewDefaults(t *testing.T) {
	c := New(0, 0, 0)
	assert.Equal(t, DefaultDelay, c.Delay)
	assert.Equal(t, DefaultBackoff, c.Backoff)
	assert.Equal(t, DefaultTimeout, c.Timeout)
}

func TestCustomDecider(t *testing.T) {
	sentinel := errors.New("special")
	calls := 0

	c := New(time.Millisecond, 1.0, time.Second)
	c.Decider = DeciderFunc(func(err error) bool { return errors.Is(err, sentinel) })

	err := c.Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return sentinel
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

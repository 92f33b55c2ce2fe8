package httpclient

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultPollInterval is the pause between poll requests.
	DefaultPollInterval = 500 * time.Millisecond
	// DefaultPollTimeout is the wall-clock deadline for job completion.
	DefaultPollTimeout = 200 * time.Second
)

// PollingConnection layers the asynchronous job protocol on a Connection:
// send an initiating request, then repeatedly re-request until a completion
// predicate holds or the deadline elapses.
//
// The three extension points are mandatory. Leaving one nil is an
// integration error surfaced by AsyncRequest, never silently ignored.
type PollingConnection struct {
	*Connection

	// Interval is the pause between polls. Defaults to DefaultPollInterval.
	Interval time.Duration
	// Timeout is the wall-clock deadline for the whole job. Defaults to
	// DefaultPollTimeout.
	Timeout time.Duration

	// InitialRequest builds the request that starts the job.
	InitialRequest func() RequestOptions
	// PollRequest derives the next poll request from the latest response,
	// so jobs whose status endpoint moves between polls keep working.
	PollRequest func(prev *Response) RequestOptions
	// Completed tests whether the latest response indicates the job is done.
	Completed func(resp *Response) bool
}

// NewPollingConnection wraps conn with default polling cadence. The caller
// fills in the extension points before use.
func NewPollingConnection(conn *Connection) *PollingConnection {
	return &PollingConnection{
		Connection: conn,
		Interval:   DefaultPollInterval,
		Timeout:    DefaultPollTimeout,
	}
}

// AsyncRequest runs the job to completion: initiate, then poll until the
// completion predicate is true. It returns the first response for which the
// predicate held. When the deadline elapses first, a job-timeout error is
// returned; that error kind is never retried, since the job is simply not
// done yet.
func (p *PollingConnection) AsyncRequest(ctx context.Context) (*Response, error) {
	if p.InitialRequest == nil {
		return nil, NewValidationError("polling connection requires an InitialRequest builder", "initial_request")
	}
	if p.PollRequest == nil {
		return nil, NewValidationError("polling connection requires a PollRequest builder", "poll_request")
	}
	if p.Completed == nil {
		return nil, NewValidationError("polling connection requires a Completed predicate", "completed")
	}

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}

	resp, err := p.Request(ctx, p.InitialRequest())
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(timeout)
	for {
		if time.Now().After(deadline) {
			return nil, NewJobTimeoutError(fmt.Sprintf("job did not complete within %v", timeout), timeout)
		}
		if err := sleepCtx(ctx, interval); err != nil {
			return nil, err
		}

		resp, err = p.Request(ctx, p.PollRequest(resp))
		if err != nil {
			return nil, err
		}
		if p.Completed(resp) {
			return resp, nil
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

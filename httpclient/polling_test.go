package httpclient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPollingConnection(t *testing.T, ft *fakeTransport) *PollingConnection {
	t.Helper()
	p := NewPollingConnection(newTestConnection(t, ft, nil))
	p.Interval = time.Millisecond
	p.Timeout = time.Second
	p.InitialRequest = func() RequestOptions {
		return RequestOptions{Action: "jobs", Method: "POST"}
	}
	p.PollRequest = func(prev *Response) RequestOptions {
		job := prev.Object.(map[string]any)
		return RequestOptions{Action: fmt.Sprintf("jobs/%v", job["id"])}
	}
	p.Completed = func(resp *Response) bool {
		return resp.Object.(map[string]any)["status"] == "done"
	}
	return p
}

func jobHandler(pollsUntilDone int) func(*WireRequest) (*WireResponse, error) {
	polls := 0
	return func(req *WireRequest) (*WireResponse, error) {
		if req.Method == "POST" {
			return wireResponse(202, `{"id": "j1", "status": "pending"}`), nil
		}
		polls++
		if polls > pollsUntilDone {
			return wireResponse(200, `{"id": "j1", "status": "done"}`), nil
		}
		return wireResponse(200, `{"id": "j1", "status": "running"}`), nil
	}
}

func TestAsyncRequestCompletes(t *testing.T) {
	ft := &fakeTransport{handler: jobHandler(3)}
	p := newTestPollingConnection(t, ft)

	resp, err := p.AsyncRequest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Object.(map[string]any)["status"])

	// One initiating request plus three incomplete polls plus the final one.
	require.Len(t, ft.requests, 5)
	assert.Equal(t, "POST", ft.requests[0].Method)
	for _, req := range ft.requests[1:] {
		assert.Equal(t, "/jobs/j1", req.URL)
	}
}

func TestAsyncRequestImmediateCompletion(t *testing.T) {
	ft := &fakeTransport{handler: jobHandler(0)}
	p := newTestPollingConnection(t, ft)

	_, err := p.AsyncRequest(context.Background())
	require.NoError(t, err)
	assert.Len(t, ft.requests, 2)
}

func TestAsyncRequestTimesOut(t *testing.T) {
	ft := &fakeTransport{handler: jobHandler(1 << 30)}
	p := newTestPollingConnection(t, ft)
	p.Timeout = 25 * time.Millisecond

	start := time.Now()
	_, err := p.AsyncRequest(context.Background())
	require.Error(t, err)
	assert.True(t, IsErrorType(err, JobTimeoutError))
	assert.Less(t, time.Since(start), time.Second)

	// A job that is still pending must not look retryable.
	assert.False(t, IsErrorType(err, TimeoutError))
}

func TestAsyncRequestPollDerivedFromLatestResponse(t *testing.T) {
	// The status endpoint moves after the first poll; each poll request must
	// be derived from the latest response, not the initiating one.
	polls := 0
	ft := &fakeTransport{handler: func(req *WireRequest) (*WireResponse, error) {
		if req.Method == "POST" {
			return wireResponse(202, `{"id": "j1", "status": "pending"}`), nil
		}
		polls++
		switch polls {
		case 1:
			return wireResponse(200, `{"id": "j2", "status": "running"}`), nil
		default:
			return wireResponse(200, `{"id": "j2", "status": "done"}`), nil
		}
	}}
	p := newTestPollingConnection(t, ft)

	_, err := p.AsyncRequest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/jobs/j1", ft.requests[1].URL)
	assert.Equal(t, "/jobs/j2", ft.requests[2].URL)
}

func TestAsyncRequestInitialFailurePropagates(t *testing.T) {
	ft := &fakeTransport{handler: func(*WireRequest) (*WireResponse, error) {
		return wireResponse(500, "cannot start job"), nil
	}}
	p := newTestPollingConnection(t, ft)

	_, err := p.AsyncRequest(context.Background())
	assert.True(t, IsHTTPStatusError(err, 500))
	assert.Len(t, ft.requests, 1)
}

func TestAsyncRequestMissingExtensionPoints(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PollingConnection)
	}{
		{"missing initial request", func(p *PollingConnection) { p.InitialRequest = nil }},
		{"missing poll request", func(p *PollingConnection) { p.PollRequest = nil }},
		{"missing completed predicate", func(p *PollingConnection) { p.Completed = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{handler: jobHandler(0)}
			p := newTestPollingConnection(t, ft)
			tt.mutate(p)

			_, err := p.AsyncRequest(context.Background())
			assert.True(t, IsErrorType(err, ValidationError))
			assert.Empty(t, ft.requests)
		})
	}
}

func TestAsyncRequestContextCancelled(t *testing.T) {
	ft := &fakeTransport{handler: jobHandler(1 << 30)}
	p := newTestPollingConnection(t, ft)
	p.Interval = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := p.AsyncRequest(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

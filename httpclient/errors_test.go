package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		name     string
		err      ClientError
		expected ErrorType
	}{
		{"network", NewNetworkError("dial failed", nil), NetworkError},
		{"timeout", NewTimeoutError("slow endpoint", 5*time.Second), TimeoutError},
		{"http", NewHTTPError("not found", 404, nil, nil), HTTPError},
		{"rate limit", NewRateLimitError("slow down", time.Second), RateLimitError},
		{"validation", NewValidationError("bad host", "host"), ValidationError},
		{"malformed response", NewMalformedResponseError("bad json", []byte("{"), "testdriver"), MalformedResponseError},
		{"job timeout", NewJobTimeoutError("still pending", 200*time.Second), JobTimeoutError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Type())
			assert.True(t, IsErrorType(tt.err, tt.expected))
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestIsErrorTypeWrapped(t *testing.T) {
	err := fmt.Errorf("request failed: %w", NewHTTPError("boom", 500, nil, nil))
	assert.True(t, IsErrorType(err, HTTPError))
	assert.False(t, IsErrorType(err, NetworkError))
	assert.False(t, IsErrorType(nil, HTTPError))
	assert.False(t, IsErrorType(errors.New("plain"), HTTPError))
}

func TestHTTPErrorCarriesStatusBodyHeaders(t *testing.T) {
	headers := http.Header{"X-Request-Id": []string{"abc"}}
	err := NewHTTPError("not found", 404, []byte("missing"), headers)

	var httpErr *httpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 404, httpErr.StatusCode())
	assert.Equal(t, []byte("missing"), httpErr.Body())
	assert.Equal(t, "abc", httpErr.Headers().Get("X-Request-Id"))

	assert.True(t, IsHTTPStatusError(err, 404))
	assert.False(t, IsHTTPStatusError(err, 500))
}

func TestRateLimitErrorStatus(t *testing.T) {
	err := NewRateLimitError("slow down", 3*time.Second)
	assert.True(t, IsHTTPStatusError(err, http.StatusTooManyRequests))

	var rl *rateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 3*time.Second, rl.RetryAfter())
}

func TestTimeoutErrorIsTransient(t *testing.T) {
	err := NewTimeoutError("slow endpoint", time.Second)
	var te interface{ Timeout() bool }
	require.True(t, errors.As(err, &te))
	assert.True(t, te.Timeout())
}

func TestJobTimeoutErrorIsNotTransient(t *testing.T) {
	// A job that is "still not done" must never look retryable to the
	// coordinator.
	err := NewJobTimeoutError("still pending", 200*time.Second)
	var te interface{ Timeout() bool }
	assert.False(t, errors.As(err, &te))
}

func TestNetworkErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := NewNetworkError("request failed", cause)
	assert.ErrorIs(t, err, cause)
}

func TestIsSuccessStatus(t *testing.T) {
	assert.True(t, IsSuccessStatus(200))
	assert.True(t, IsSuccessStatus(201))
	assert.True(t, IsSuccessStatus(202))
	assert.False(t, IsSuccessStatus(204))
	assert.False(t, IsSuccessStatus(301))
	assert.False(t, IsSuccessStatus(404))
	assert.False(t, IsSuccessStatus(500))
}

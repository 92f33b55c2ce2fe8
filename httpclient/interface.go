package httpclient

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Transport is the socket-level collaborator behind a Connection. The core
// never performs raw network I/O itself; it hands fully built requests to a
// Transport and classifies what comes back.
//
// A Transport instance is exclusively owned by its Connection. Lazy response
// bodies borrow the underlying session and must be drained or closed before
// the next request reuses it.
type Transport interface {
	// Connect establishes the session against the endpoint. It is called
	// lazily before the first exchange and again after endpoint changes.
	Connect(opts ConnectOptions) error
	// RoundTrip sends one request and returns the raw response. The
	// response body is a still-open stream; the caller owns closing it.
	RoundTrip(ctx context.Context, req *WireRequest) (*WireResponse, error)
	// SetProxyURL points an already connected session at a new proxy.
	SetProxyURL(proxyURL string) error
	// Close releases the session.
	Close() error
}

// ConnectOptions carries everything a Transport needs to open a session.
type ConnectOptions struct {
	Host       string
	Port       int
	Secure     bool
	Timeout    time.Duration
	ProxyURL   string
	Credential Credential
}

// WireRequest is one fully built request: a relative URL (path plus query),
// final headers and an encoded body.
type WireRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// WireResponse is the raw result of a transport exchange.
type WireResponse struct {
	StatusCode int
	Reason     string
	Headers    http.Header
	Body       io.ReadCloser
}

// ParamsHook extends the query parameters of every request, e.g. with an API
// key or version. It receives a copy of the caller's map and returns the map
// to use.
type ParamsHook func(params map[string]string) map[string]string

// HeadersHook extends the headers of every request, e.g. with an
// Authorization header.
type HeadersHook func(headers map[string]string) map[string]string

// PreConnectHook performs the final mutation of params and headers before
// the request is sent, after all defaults have been applied. Providers use
// it for request signing.
type PreConnectHook func(params, headers map[string]string) (map[string]string, map[string]string)

// DataEncoder encodes the request body before transmission.
type DataEncoder func(data []byte) []byte

// Hooks are the injectable extension points of a Connection. Nil entries
// behave as identity.
type Hooks struct {
	DefaultParams  ParamsHook
	DefaultHeaders HeadersHook
	PreConnect     PreConnectHook
	EncodeData     DataEncoder
}

// BodyParser turns a response body into a structured value. Implementations
// must return a distinct error on malformed input.
type BodyParser interface {
	Parse(body []byte) (any, error)
}

// BodyEncoder serializes a structured value into a wire-format body.
type BodyEncoder interface {
	Encode(v any) ([]byte, error)
}

// ErrorMapper maps a failed classification into a provider-appropriate
// error. It is invoked exactly once per failed response.
type ErrorMapper func(statusCode int, message string, headers http.Header) error

// DefaultErrorMapper maps 429 to a rate-limit error (honoring Retry-After)
// and every other failure status to an HTTP error.
func DefaultErrorMapper(statusCode int, message string, headers http.Header) error {
	if statusCode == http.StatusTooManyRequests {
		return NewRateLimitError(message, retryAfterFromHeaders(headers))
	}
	return NewHTTPError(message, statusCode, []byte(message), headers)
}

func retryAfterFromHeaders(headers http.Header) time.Duration {
	if headers == nil {
		return 0
	}
	raw := headers.Get("Retry-After")
	if raw == "" {
		return 0
	}
	if secs, err := time.ParseDuration(raw + "s"); err == nil {
		return secs
	}
	return 0
}

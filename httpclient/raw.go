package httpclient

import (
	"io"
	"net/http"
	"sync"
)

// RawResponse exposes status, reason and headers eagerly while deferring the
// body read until first access. It exists for large downloads (object
// storage, snapshots) where buffering would be wasteful.
//
// The body borrows the connection's transport session: until Body or Close
// is called, the session cannot serve another request.
type RawResponse struct {
	// StatusCode is the numeric HTTP status.
	StatusCode int
	// Reason is the server's status line text.
	Reason string
	// Headers holds the response headers.
	Headers http.Header

	stream io.ReadCloser

	once sync.Once
	body []byte
	err  error
}

func newRawResponse(wire *WireResponse) *RawResponse {
	return &RawResponse{
		StatusCode: wire.StatusCode,
		Reason:     wire.Reason,
		Headers:    wire.Headers,
		stream:     wire.Body,
	}
}

// Success reports whether the status classified as successful.
func (r *RawResponse) Success() bool {
	return IsSuccessStatus(r.StatusCode)
}

// Body reads the entire body from the still-open stream, caches it, and
// returns the cached bytes on every subsequent call. The underlying stream
// is consumed exactly once.
func (r *RawResponse) Body() ([]byte, error) {
	r.once.Do(func() {
		defer r.stream.Close()
		r.body, r.err = io.ReadAll(r.stream)
		if r.err != nil {
			r.err = NewNetworkError("failed to read response body", r.err)
		}
	})
	return r.body, r.err
}

// Reader returns the underlying body stream for incremental consumption.
// Callers that use Reader own closing it and must not mix it with Body.
func (r *RawResponse) Reader() io.ReadCloser {
	return r.stream
}

// Close releases the body stream without reading it.
func (r *RawResponse) Close() error {
	return r.stream.Close()
}

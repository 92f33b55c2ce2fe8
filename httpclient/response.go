package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Response is a fully read, classified and parsed response. Instances only
// exist for successful exchanges: when classification fails, the request
// call returns a typed error instead of a Response.
type Response struct {
	// StatusCode is the numeric HTTP status.
	StatusCode int
	// Reason is the server's status line text, e.g. "OK".
	Reason string
	// Headers holds the response headers.
	Headers http.Header
	// Body is the raw body with surrounding whitespace trimmed.
	Body []byte
	// Object is the parsed body, or nil for an intentionally empty body.
	Object any
}

// responseOptions control classification and parsing of a buffered response.
type responseOptions struct {
	parser              BodyParser
	errorMapper         ErrorMapper
	parseZeroLengthBody bool
	driverName          string
}

// newResponse drains the wire response, classifies the status against the
// success set and parses the body. The wire body stream is always closed
// before returning, so the transport session is free for the next request.
func newResponse(wire *WireResponse, opts responseOptions) (*Response, error) {
	body, readErr := io.ReadAll(wire.Body)
	closeErr := wire.Body.Close()
	if readErr != nil {
		return nil, NewNetworkError("failed to read response body", readErr)
	}
	if closeErr != nil {
		return nil, NewNetworkError("failed to close response body", closeErr)
	}
	body = bytes.TrimSpace(body)

	if !IsSuccessStatus(wire.StatusCode) {
		mapper := opts.errorMapper
		if mapper == nil {
			mapper = DefaultErrorMapper
		}
		message := string(body)
		if message == "" {
			message = wire.Reason
		}
		return nil, mapper(wire.StatusCode, message, wire.Headers)
	}

	resp := &Response{
		StatusCode: wire.StatusCode,
		Reason:     wire.Reason,
		Headers:    wire.Headers,
		Body:       body,
	}

	// An empty body is not an error unless the caller opted into parsing
	// zero-length bodies (for formats where emptiness itself is malformed).
	if len(body) == 0 && !opts.parseZeroLengthBody {
		return resp, nil
	}

	if opts.parser != nil {
		obj, err := opts.parser.Parse(body)
		if err != nil {
			msg := fmt.Sprintf("failed to parse body: %v", err)
			return nil, NewMalformedResponseError(msg, body, opts.driverName)
		}
		resp.Object = obj
	}
	return resp, nil
}

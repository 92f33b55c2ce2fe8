package httpclient

import (
	"context"
	"time"

	"github.com/dzaytsev91/libcloud/trace"
)

// logRequest emits one debug line per outgoing request. Header values pass
// through the logger's sensitive-data filter, so Authorization and friends
// are masked rather than dropped.
func (c *Connection) logRequest(ctx context.Context, wire *WireRequest) {
	if c.log == nil {
		return
	}
	requestID := trace.EnsureRequestID(ctx)
	ev := c.log.Debug().
		Str("request_id", requestID).
		Str("method", wire.Method).
		Str("host", c.opts.Host).
		Str("url", wire.URL)
	if c.opts.LogPayload && len(wire.Body) > 0 {
		ev = ev.Bytes("payload", truncatePayload(wire.Body, c.opts.PayloadMaxBytes))
	}
	ev.Msg("HTTP request")
}

// logResponse emits one debug line per completed exchange.
func (c *Connection) logResponse(ctx context.Context, wire *WireRequest, resp *WireResponse, elapsed time.Duration) {
	if c.log == nil {
		return
	}
	requestID := trace.EnsureRequestID(ctx)
	c.log.Debug().
		Str("request_id", requestID).
		Str("method", wire.Method).
		Str("url", wire.URL).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("HTTP response")
}

// logError emits one error line for a failed exchange.
func (c *Connection) logError(ctx context.Context, wire *WireRequest, err error) {
	if c.log == nil {
		return
	}
	requestID := trace.EnsureRequestID(ctx)
	c.log.Error().
		Str("request_id", requestID).
		Str("method", wire.Method).
		Str("url", wire.URL).
		Err(err).
		Msg("HTTP request failed")
}

func truncatePayload(payload []byte, maxBytes int) []byte {
	if maxBytes <= 0 || len(payload) <= maxBytes {
		return payload
	}
	return payload[:maxBytes]
}

package httpclient

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ClientError represents the different failure kinds the transport core can
// surface.
type ClientError interface {
	error
	Type() ErrorType
}

// ErrorType defines the category of client error.
type ErrorType string

const (
	// NetworkError covers transport-level failures: resolution, TLS,
	// connection resets.
	NetworkError ErrorType = "network"
	// TimeoutError covers client-side timeouts of a single exchange.
	TimeoutError ErrorType = "timeout"
	// HTTPError covers responses whose status classified as failure.
	HTTPError ErrorType = "http"
	// RateLimitError is the 429 specialization of HTTPError.
	RateLimitError ErrorType = "rate_limit"
	// ValidationError covers misconfiguration and API misuse; never retried.
	ValidationError ErrorType = "validation"
	// MalformedResponseError covers bodies that do not parse as the declared
	// wire format; fatal for the attempt, never retried.
	MalformedResponseError ErrorType = "malformed_response"
	// JobTimeoutError covers async jobs that did not complete within the
	// polling deadline. Distinct from TimeoutError: the job is still not
	// done, so retrying cannot help.
	JobTimeoutError ErrorType = "job_timeout"
)

type networkError struct {
	message string
	wrapped error
}

func (e *networkError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("network error: %s: %v", e.message, e.wrapped)
	}
	return fmt.Sprintf("network error: %s", e.message)
}

func (e *networkError) Type() ErrorType { return NetworkError }
func (e *networkError) Unwrap() error   { return e.wrapped }

type timeoutError struct {
	message string
	timeout time.Duration
}

func (e *timeoutError) Error() string {
	return fmt.Sprintf("timeout error: %s (timeout: %v)", e.message, e.timeout)
}

func (e *timeoutError) Type() ErrorType { return TimeoutError }

// Timeout marks the error as transient for retry classification.
func (e *timeoutError) Timeout() bool { return true }

type httpError struct {
	message    string
	statusCode int
	body       []byte
	headers    http.Header
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP error: %s (status: %d)", e.message, e.statusCode)
}

func (e *httpError) Type() ErrorType      { return HTTPError }
func (e *httpError) StatusCode() int      { return e.statusCode }
func (e *httpError) Body() []byte         { return e.body }
func (e *httpError) Headers() http.Header { return e.headers }

type rateLimitError struct {
	message    string
	retryAfter time.Duration
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("rate limit reached: %s (retry after: %v)", e.message, e.retryAfter)
}

func (e *rateLimitError) Type() ErrorType           { return RateLimitError }
func (e *rateLimitError) StatusCode() int           { return http.StatusTooManyRequests }
func (e *rateLimitError) RetryAfter() time.Duration { return e.retryAfter }

type validationError struct {
	message string
	field   string
}

func (e *validationError) Error() string {
	if e.field != "" {
		return fmt.Sprintf("validation error: %s (field: %s)", e.message, e.field)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

func (e *validationError) Type() ErrorType { return ValidationError }

type malformedResponseError struct {
	message string
	body    []byte
	driver  string
}

func (e *malformedResponseError) Error() string {
	if e.driver != "" {
		return fmt.Sprintf("malformed response: %s (driver: %s)", e.message, e.driver)
	}
	return fmt.Sprintf("malformed response: %s", e.message)
}

func (e *malformedResponseError) Type() ErrorType { return MalformedResponseError }
func (e *malformedResponseError) Body() []byte    { return e.body }

type jobTimeoutError struct {
	message string
	timeout time.Duration
}

func (e *jobTimeoutError) Error() string {
	return fmt.Sprintf("job timeout: %s (timeout: %v)", e.message, e.timeout)
}

func (e *jobTimeoutError) Type() ErrorType { return JobTimeoutError }

// NewNetworkError creates a new network error.
func NewNetworkError(message string, wrapped error) ClientError {
	return &networkError{message: message, wrapped: wrapped}
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(message string, timeout time.Duration) ClientError {
	return &timeoutError{message: message, timeout: timeout}
}

// NewHTTPError creates a new HTTP status error.
func NewHTTPError(message string, statusCode int, body []byte, headers http.Header) ClientError {
	return &httpError{message: message, statusCode: statusCode, body: body, headers: headers}
}

// NewRateLimitError creates a new rate-limit error.
func NewRateLimitError(message string, retryAfter time.Duration) ClientError {
	return &rateLimitError{message: message, retryAfter: retryAfter}
}

// NewValidationError creates a new validation error.
func NewValidationError(message, field string) ClientError {
	return &validationError{message: message, field: field}
}

// NewMalformedResponseError creates a new malformed-response error carrying
// the raw body for diagnostics.
func NewMalformedResponseError(message string, body []byte, driver string) ClientError {
	return &malformedResponseError{message: message, body: body, driver: driver}
}

// NewJobTimeoutError creates a new async-job timeout error.
func NewJobTimeoutError(message string, timeout time.Duration) ClientError {
	return &jobTimeoutError{message: message, timeout: timeout}
}

// IsErrorType checks whether err is a ClientError of the given type.
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type() == errorType
	}
	return false
}

// IsHTTPStatusError checks whether err is an HTTP error with the given
// status code.
func IsHTTPStatusError(err error, statusCode int) bool {
	var statusErr interface{ StatusCode() int }
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode() == statusCode
	}
	return false
}

// SuccessStatuses are the status codes that classify a response as
// successful.
var SuccessStatuses = []int{http.StatusOK, http.StatusCreated, http.StatusAccepted}

// IsSuccessStatus reports whether statusCode is one of SuccessStatuses.
func IsSuccessStatus(statusCode int) bool {
	for _, s := range SuccessStatuses {
		if statusCode == s {
			return true
		}
	}
	return false
}

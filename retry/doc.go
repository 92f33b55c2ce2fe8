// Package retry provides a generic coordinator that re-invokes a fallible
// operation under a wall-clock budget, together with composable deciders
// that classify which failures are worth another attempt.
//
// The coordinator knows nothing about HTTP beyond the failure classification
// supplied by its Decider: deciders inspect errors for transient transport
// categories (timeouts, connection resets and refusals) or for retryable
// status codes exposed through a StatusCode() method on the error value.
// Permanent failures such as authentication errors or malformed responses
// are never retried.
package retry

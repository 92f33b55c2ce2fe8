package retry

import "errors"

// A Decider decides whether a failed attempt should be retried.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Decider interface {
	Decide(err error) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary functions
// as retry deciders. Simple deciders compose into larger decision trees with
// And and Or.
type DeciderFunc func(err error) bool

// Decide reports whether a retry should be done for err.
func (f DeciderFunc) Decide(err error) bool {
	return f(err)
}

// And composes two deciders into one that retries only when both agree.
// Short-circuit logic is used, so g is not evaluated when f returns false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(err error) bool {
		return f(err) && g(err)
	}
}

// Or composes two deciders into one that retries when either agrees.
// Short-circuit logic is used, so g is not evaluated when f returns true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(err error) bool {
		return f(err) || g(err)
	}
}

// TransientErr retries when the error is transient according to Categorize.
var TransientErr DeciderFunc = func(err error) bool {
	return Categorize(err) != Not
}

// DefaultRetryableStatuses are the HTTP status codes the default decider
// treats as transient: request timeout, rate limiting and gateway failures.
var DefaultRetryableStatuses = []int{408, 429, 502, 503, 504}

// DefaultDecider retries transient transport errors and responses carrying
// one of DefaultRetryableStatuses.
var DefaultDecider = StatusCode(DefaultRetryableStatuses...).Or(TransientErr)

// StatusCode constructs a decider that retries when the error exposes a
// StatusCode() method reporting one of the codes in ss.
func StatusCode(ss ...int) DeciderFunc {
	codes := make([]int, len(ss))
	copy(codes, ss)
	return func(err error) bool {
		var statusErr hasStatusCode
		if !errors.As(err, &statusErr) {
			return false
		}
		status := statusErr.StatusCode()
		for _, s := range codes {
			if status == s {
				return true
			}
		}
		return false
	}
}

type hasStatusCode interface {
	StatusCode() int
}

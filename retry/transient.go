package retry

import (
	"errors"
	"syscall"
)

// A Category is the transience category of an error as reported by
// Categorize. Not means a retry is very unlikely to help; every other
// category indicates some prospect of success on a later attempt.
type Category int

const (
	// Not indicates any non-transient error.
	Not Category = iota
	// Timeout indicates a client-side timeout. The remote service may be
	// going through a period of slowness and succeed on a later attempt.
	Timeout
	// ConnRefused indicates the remote host refused the connection,
	// typically because the service behind the port is restarting.
	ConnRefused
	// ConnReset indicates the remote host reset an active connection,
	// common behind load balancers during deployments.
	ConnReset
)

// Categorize returns the transience category of err, inspecting wrapped
// causes. A nil error and any permanent error both return Not.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var timeoutErr hasTimeout
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.ECONNREFUSED:
			return ConnRefused
		}
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}

package retry

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeNil(t *testing.T) {
	assert.Equal(t, Not, Categorize(nil))
}

func TestCategorizeTimeout(t *testing.T) {
	assert.Equal(t, Timeout, Categorize(&timeoutErr{}))

	opErr := &net.OpError{Op: "dial", Err: &timeoutErr{}}
	assert.Equal(t, Timeout, Categorize(opErr))
}

func TestCategorizeErrno(t *testing.T) {
	assert.Equal(t, ConnReset, Categorize(syscall.ECONNRESET))
	assert.Equal(t, ConnRefused, Categorize(syscall.ECONNREFUSED))

	wrapped := fmt.Errorf("write failed: %w", syscall.ECONNRESET)
	assert.Equal(t, ConnReset, Categorize(wrapped))

	opErr := &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}
	assert.Equal(t, ConnRefused, Categorize(opErr))
}

func TestCategorizePermanent(t *testing.T) {
	assert.Equal(t, Not, Categorize(errors.New("no such host")))
	assert.Equal(t, Not, Categorize(syscall.EPERM))
}

package httpclient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDriverSequencing(t *testing.T) {
	ft := &fakeTransport{handler: okJSON(`{}`)}

	opts := DefaultConnectionOptions()
	opts.Host = "api.example.com"
	opts.Transport = ft

	d, err := NewDriver(DriverOptions{
		Name:       "testdriver",
		Region:     "ams3",
		APIVersion: "v2",
		Credential: KeyCredential("tok"),
		Connection: opts,
	})
	require.NoError(t, err)

	// The driver is attached before the initial connect.
	assert.Same(t, d, d.Connection.Driver())
	assert.Equal(t, 1, ft.connects)
	assert.Equal(t, KeyCredential("tok"), ft.connectOpts.Credential)

	// The driver identity flows into the user-agent.
	_, err = d.Connection.Request(context.Background(), RequestOptions{Action: "servers"})
	require.NoError(t, err)
	assert.Equal(t, "libcloud/"+Version+" (testdriver)", ft.requests[0].Headers["User-Agent"])
}

func TestNewDriverConnectionHookOverrides(t *testing.T) {
	ft := &fakeTransport{}

	opts := DefaultConnectionOptions()
	opts.Host = "api.example.com"
	opts.Transport = ft

	d, err := NewDriver(DriverOptions{
		Name:       "testdriver",
		Credential: NoCredential(),
		Connection: opts,
		ConnectionHook: func(o *ConnectionOptions) {
			o.Timeout = 5 * time.Second
			o.ProxyURL = "http://proxy.internal:3128"
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, ft.connectOpts.Timeout)
	assert.Equal(t, "http://proxy.internal:3128", ft.connectOpts.ProxyURL)
	assert.NotNil(t, d.Connection)
}

func TestNewDriverValidation(t *testing.T) {
	opts := DefaultConnectionOptions()
	opts.Host = "api.example.com"

	_, err := NewDriver(DriverOptions{Connection: opts})
	assert.True(t, IsErrorType(err, ValidationError))

	_, err = NewDriver(DriverOptions{
		Name:       "testdriver",
		Credential: Credential{Kind: CredentialKey},
		Connection: opts,
	})
	assert.True(t, IsErrorType(err, ValidationError))
}

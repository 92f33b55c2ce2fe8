package httpclient

import (
	"github.com/dzaytsev91/libcloud/logger"
)

// Driver identifies one provider integration: a name for user-agent and
// error context, an optional region and API version, and the connection it
// talks through.
type Driver struct {
	Name       string
	Region     string
	APIVersion string
	Connection *Connection
}

// DriverOptions assembles everything NewDriver needs.
type DriverOptions struct {
	Name       string
	Region     string
	APIVersion string
	Credential Credential
	// Connection carries the endpoint settings; start from
	// DefaultConnectionOptions or OptionsFromConfig.
	Connection ConnectionOptions
	// ConnectionHook lets the driver adjust the final connection options
	// (timeout, retry policy, proxy URL) before the connection is built.
	ConnectionHook func(*ConnectionOptions)
	Logger         logger.Logger
}

// NewDriver builds the connection, attaches the driver to it and performs
// the initial connect, in that order. Connect-time behavior (base-URL
// resolution, user-agent) depends on the driver being attached first, so the
// sequencing here is deliberate.
func NewDriver(opts DriverOptions) (*Driver, error) {
	if opts.Name == "" {
		return nil, NewValidationError("driver requires a name", "name")
	}

	connOpts := opts.Connection
	connOpts.Credential = opts.Credential
	if opts.Logger != nil {
		connOpts.Logger = opts.Logger
	}
	if opts.ConnectionHook != nil {
		opts.ConnectionHook(&connOpts)
	}

	conn, err := NewConnection(connOpts)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		Name:       opts.Name,
		Region:     opts.Region,
		APIVersion: opts.APIVersion,
		Connection: conn,
	}
	conn.SetDriver(d)

	if err := conn.Connect(); err != nil {
		return nil, err
	}
	return d, nil
}

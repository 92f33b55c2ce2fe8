package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dzaytsev91/libcloud/config"
	"github.com/dzaytsev91/libcloud/logger"
	"github.com/dzaytsev91/libcloud/retry"
)

const (
	defaultHTTPPort  = 80
	defaultHTTPSPort = 443

	cacheBustingParam = "cache-busting"
	acceptEncoding    = "gzip,deflate"
)

// ConnectionOptions configures a Connection. Zero values are filled from
// DefaultConnectionOptions at construction.
type ConnectionOptions struct {
	// Host and Port identify the endpoint. When URL is set, host, port,
	// security and path prefix are derived from it instead.
	Host string
	Port int
	// Secure selects https. Defaults to true.
	Secure bool
	// URL optionally supplies the endpoint as one base URL.
	URL string
	// PathPrefix is prepended to every action path.
	PathPrefix string
	// Timeout bounds a single transport exchange.
	Timeout time.Duration
	// ProxyURL routes requests through an explicit proxy.
	ProxyURL string
	// Credential is the authentication material for the endpoint.
	Credential Credential
	// AllowInsecure permits plain-http endpoints. Defaults to true; turning
	// it off makes Secure=false a construction error.
	AllowInsecure bool
	// AllowDoubleSlashes disables path normalization: the prefix and action
	// are concatenated verbatim.
	AllowDoubleSlashes bool
	// CacheBusting appends a unique query parameter to every GET request.
	CacheBusting bool
	// ParseZeroLengthBody forces the parser to run even on empty bodies.
	ParseZeroLengthBody bool

	// RetryEnabled makes retry the per-call default.
	RetryEnabled bool
	RetryDelay   time.Duration
	Backoff      float64
	RetryTimeout time.Duration

	// Hooks inject provider behavior into the request pipeline.
	Hooks Hooks
	// Transport performs the socket-level exchange. Defaults to the
	// net/http-backed transport.
	Transport Transport
	// Parser decodes response bodies. Defaults to JSONParser.
	Parser BodyParser
	// ErrorMapper maps failed classifications. Defaults to DefaultErrorMapper.
	ErrorMapper ErrorMapper
	// Logger receives request/response logs. Nil disables logging.
	Logger logger.Logger
	// LogPayload includes truncated request/response bodies in logs.
	LogPayload bool
	// PayloadMaxBytes caps how much payload is logged per message.
	PayloadMaxBytes int
}

// DefaultConnectionOptions returns the baseline options: secure endpoint,
// 30s timeout, retries off, JSON parsing.
func DefaultConnectionOptions() ConnectionOptions {
	return ConnectionOptions{
		Secure:        true,
		AllowInsecure: true,
		Timeout:       30 * time.Second,
		RetryDelay:    retry.DefaultDelay,
		Backoff:       retry.DefaultBackoff,
		RetryTimeout:  retry.DefaultTimeout,
		Parser:          JSONParser{},
		ErrorMapper:     DefaultErrorMapper,
		PayloadMaxBytes: 1024,
	}
}

// OptionsFromConfig projects the process-wide configuration onto connection
// options, so startup toggles (retry by default, double-slash tolerance)
// apply without ambient globals.
func OptionsFromConfig(cfg *config.Config) ConnectionOptions {
	opts := DefaultConnectionOptions()
	opts.Timeout = cfg.Client.Timeout
	opts.RetryEnabled = cfg.Client.Retry.Enabled
	opts.RetryDelay = cfg.Client.Retry.Delay
	opts.Backoff = cfg.Client.Retry.Backoff
	opts.RetryTimeout = cfg.Client.Retry.Timeout
	opts.AllowDoubleSlashes = cfg.Client.Path.Doubleslash
	opts.LogPayload = cfg.Client.Payload.Log
	opts.PayloadMaxBytes = cfg.Client.Payload.MaxBytes
	return opts
}

// RequestOptions describes one call. Params and Headers are never mutated;
// the pipeline works on copies.
type RequestOptions struct {
	// Action is the relative path, possibly already carrying a query string.
	Action string
	// Method defaults to GET.
	Method string
	// Params are query parameters appended to the action.
	Params map[string]string
	// Headers are request headers merged over the defaults.
	Headers map[string]string
	// Data is the request body, passed through the encode hook.
	Data []byte
	// Retry overrides the connection's retry default for this call.
	Retry *bool
}

// Connection owns one logical transport session against an endpoint and
// builds, executes and classifies requests over it. It is not safe for
// concurrent requests; concurrent callers need their own instances.
type Connection struct {
	opts      ConnectionOptions
	transport Transport
	connected bool

	driver   *Driver
	uaTokens []string

	// reqContext is per-call scratch state providers can stash between
	// hooks. It is reset on every exit path of Request/RequestRaw.
	reqContext map[string]any

	log logger.Logger
}

// NewConnection validates the options and returns an unconnected Connection.
// The transport session is established lazily on first request, or eagerly
// via Connect.
func NewConnection(opts ConnectionOptions) (*Connection, error) {
	if err := opts.Credential.Validate(); err != nil {
		return nil, err
	}

	if opts.URL != "" {
		host, port, secure, prefix, err := tupleFromURL(opts.URL)
		if err != nil {
			return nil, err
		}
		opts.Host = host
		opts.Port = port
		opts.Secure = secure
		if prefix != "" {
			opts.PathPrefix = prefix
		}
	}

	if opts.Host == "" {
		return nil, NewValidationError("connection requires a host", "host")
	}
	if !opts.Secure && !opts.AllowInsecure {
		return nil, NewValidationError("non-secure connections are not allowed for this endpoint", "secure")
	}
	if opts.Port <= 0 {
		if opts.Secure {
			opts.Port = defaultHTTPSPort
		} else {
			opts.Port = defaultHTTPPort
		}
	}
	if opts.ProxyURL != "" {
		if _, err := url.Parse(opts.ProxyURL); err != nil {
			return nil, NewValidationError(fmt.Sprintf("invalid proxy URL %q", opts.ProxyURL), "proxy_url")
		}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultConnectionOptions().Timeout
	}
	if opts.Transport == nil {
		opts.Transport = NewNetTransport()
	}
	if opts.Parser == nil {
		opts.Parser = JSONParser{}
	}
	if opts.ErrorMapper == nil {
		opts.ErrorMapper = DefaultErrorMapper
	}

	return &Connection{
		opts:      opts,
		transport: opts.Transport,
		log:       opts.Logger,
	}, nil
}

// tupleFromURL splits a base URL into host, port, secure flag and path
// prefix. Only http and https schemes are valid.
func tupleFromURL(rawURL string) (host string, port int, secure bool, prefix string, err error) {
	parsed, perr := url.Parse(rawURL)
	if perr != nil {
		return "", 0, false, "", NewValidationError(fmt.Sprintf("invalid base URL %q", rawURL), "url")
	}
	switch parsed.Scheme {
	case "https":
		secure = true
		port = defaultHTTPSPort
	case "http":
		secure = false
		port = defaultHTTPPort
	default:
		return "", 0, false, "", NewValidationError(fmt.Sprintf("unsupported URL scheme %q", parsed.Scheme), "url")
	}
	host = parsed.Hostname()
	if host == "" {
		return "", 0, false, "", NewValidationError(fmt.Sprintf("base URL %q has no host", rawURL), "url")
	}
	if p := parsed.Port(); p != "" {
		if n, aerr := strconv.Atoi(p); aerr == nil {
			port = n
		}
	}
	prefix = parsed.Path
	return host, port, secure, prefix, nil
}

// Connect establishes the transport session using the configured endpoint.
func (c *Connection) Connect() error {
	err := c.transport.Connect(ConnectOptions{
		Host:       c.opts.Host,
		Port:       c.opts.Port,
		Secure:     c.opts.Secure,
		Timeout:    c.opts.Timeout,
		ProxyURL:   c.opts.ProxyURL,
		Credential: c.opts.Credential,
	})
	if err != nil {
		return err
	}
	c.connected = true
	return nil
}

// ConnectURL re-points the connection at a new base URL and reconnects.
func (c *Connection) ConnectURL(rawURL string) error {
	host, port, secure, prefix, err := tupleFromURL(rawURL)
	if err != nil {
		return err
	}
	if !secure && !c.opts.AllowInsecure {
		return NewValidationError("non-secure connections are not allowed for this endpoint", "secure")
	}
	c.opts.Host = host
	c.opts.Port = port
	c.opts.Secure = secure
	if prefix != "" {
		c.opts.PathPrefix = prefix
	}
	return c.Connect()
}

// SetProxyURL routes subsequent requests through proxyURL, updating the live
// transport session when one exists.
func (c *Connection) SetProxyURL(proxyURL string) error {
	if err := c.transport.SetProxyURL(proxyURL); err != nil {
		return err
	}
	c.opts.ProxyURL = proxyURL
	return nil
}

// SetDriver attaches the owning driver; its name feeds user-agent and error
// context.
func (c *Connection) SetDriver(d *Driver) {
	c.driver = d
}

// Driver returns the attached driver, or nil.
func (c *Connection) Driver() *Driver {
	return c.driver
}

// UserAgentAppend adds a token to the User-Agent header of every subsequent
// request.
func (c *Connection) UserAgentAppend(token string) {
	c.uaTokens = append(c.uaTokens, token)
}

// SetContext replaces the per-call scratch context.
func (c *Connection) SetContext(ctx map[string]any) {
	c.reqContext = ctx
}

// Context returns the per-call scratch context, allocating it on first use.
func (c *Connection) Context() map[string]any {
	if c.reqContext == nil {
		c.reqContext = make(map[string]any)
	}
	return c.reqContext
}

// ResetContext clears the per-call scratch context.
func (c *Connection) ResetContext() {
	c.reqContext = nil
}

// Host returns the configured endpoint host.
func (c *Connection) Host() string { return c.opts.Host }

// Port returns the configured endpoint port.
func (c *Connection) Port() int { return c.opts.Port }

// Secure reports whether the endpoint uses https.
func (c *Connection) Secure() bool { return c.opts.Secure }

// Close releases the transport session.
func (c *Connection) Close() error {
	c.connected = false
	return c.transport.Close()
}

// Request builds, sends and classifies one request, returning the buffered
// parsed response. On any failure a typed error is returned and the per-call
// context is reset.
func (c *Connection) Request(ctx context.Context, req RequestOptions) (*Response, error) {
	defer c.ResetContext()

	wire, err := c.prepare(req)
	if err != nil {
		return nil, err
	}

	var resp *Response
	exchange := func() error {
		raw, rerr := c.roundTrip(ctx, wire)
		if rerr != nil {
			return rerr
		}
		parsed, perr := newResponse(raw, c.responseOptions())
		if perr != nil {
			return perr
		}
		resp = parsed
		return nil
	}

	if c.retryEnabled(req.Retry) {
		coord := retry.New(c.opts.RetryDelay, c.opts.Backoff, c.opts.RetryTimeout)
		err = coord.Do(ctx, exchange)
	} else {
		err = exchange()
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// RequestRaw builds and sends one request, returning the raw response with a
// lazily read body. The status is not classified; callers check Success and
// read the body themselves. Retries cover transport failures only, since the
// response body has not been consumed yet.
func (c *Connection) RequestRaw(ctx context.Context, req RequestOptions) (*RawResponse, error) {
	defer c.ResetContext()

	wire, err := c.prepare(req)
	if err != nil {
		return nil, err
	}

	var raw *WireResponse
	exchange := func() error {
		got, rerr := c.roundTrip(ctx, wire)
		if rerr != nil {
			return rerr
		}
		raw = got
		return nil
	}

	if c.retryEnabled(req.Retry) {
		coord := retry.New(c.opts.RetryDelay, c.opts.Backoff, c.opts.RetryTimeout)
		err = coord.Do(ctx, exchange)
	} else {
		err = exchange()
	}
	if err != nil {
		return nil, err
	}
	return newRawResponse(raw), nil
}

// prepare runs the request-construction pipeline: morph the action path,
// apply default params, cache busting, default headers, identity headers,
// encode the body, run the pre-connect hook and join the query string.
func (c *Connection) prepare(req RequestOptions) (*WireRequest, error) {
	if req.Action == "" {
		return nil, NewValidationError("request action must not be empty", "action")
	}
	method := req.Method
	if method == "" {
		method = "GET"
	}

	action := c.morphAction(req.Action)

	params := copyMap(req.Params)
	if c.opts.Hooks.DefaultParams != nil {
		params = c.opts.Hooks.DefaultParams(params)
	}
	if c.opts.CacheBusting && method == "GET" {
		params[cacheBustingParam] = strings.ReplaceAll(uuid.New().String(), "-", "")
	}

	headers := copyMap(req.Headers)
	if c.opts.Hooks.DefaultHeaders != nil {
		headers = c.opts.Hooks.DefaultHeaders(headers)
	}
	headers["User-Agent"] = c.userAgent()
	headers["Accept-Encoding"] = acceptEncoding
	if c.opts.Port != defaultHTTPPort && c.opts.Port != defaultHTTPSPort {
		headers["Host"] = fmt.Sprintf("%s:%d", c.opts.Host, c.opts.Port)
	} else {
		headers["Host"] = c.opts.Host
	}

	data := req.Data
	if len(data) > 0 && c.opts.Hooks.EncodeData != nil {
		data = c.opts.Hooks.EncodeData(data)
	}

	if c.opts.Hooks.PreConnect != nil {
		params, headers = c.opts.Hooks.PreConnect(params, headers)
	}

	fullURL := action
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(action, "?") {
			sep = "&"
		}
		fullURL = action + sep + encodeParams(params)
	}

	return &WireRequest{
		Method:  method,
		URL:     fullURL,
		Headers: headers,
		Body:    data,
	}, nil
}

// morphAction joins the path prefix and action with exactly one leading
// slash and no doubled slash at the joint. With double-slash tolerance the
// two are concatenated verbatim.
func (c *Connection) morphAction(action string) string {
	if c.opts.AllowDoubleSlashes {
		return c.opts.PathPrefix + action
	}
	prefix := strings.Trim(c.opts.PathPrefix, "/")
	action = strings.TrimLeft(action, "/")
	if prefix == "" {
		return "/" + action
	}
	return "/" + prefix + "/" + action
}

// roundTrip lazily connects, performs one exchange and translates transport
// failures into typed errors.
func (c *Connection) roundTrip(ctx context.Context, wire *WireRequest) (*WireResponse, error) {
	if !c.connected {
		if err := c.Connect(); err != nil {
			return nil, err
		}
	}

	c.logRequest(ctx, wire)
	start := time.Now()
	resp, err := c.transport.RoundTrip(ctx, wire)
	if err != nil {
		err = c.translateTransportError(err)
		c.logError(ctx, wire, err)
		return nil, err
	}
	c.logResponse(ctx, wire, resp, time.Since(start))
	return resp, nil
}

// translateTransportError maps socket-level failures onto the error
// taxonomy. The original error stays in the chain so retry classification
// can still inspect errnos.
func (c *Connection) translateTransportError(err error) error {
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return err
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		msg := fmt.Sprintf("no address associated with hostname %q: verify the connection host setting", c.opts.Host)
		return NewNetworkError(msg, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(fmt.Sprintf("request to %s timed out", c.opts.Host), c.opts.Timeout)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(fmt.Sprintf("request to %s timed out", c.opts.Host), c.opts.Timeout)
	}

	return NewNetworkError(fmt.Sprintf("request to %s failed", c.opts.Host), err)
}

func (c *Connection) responseOptions() responseOptions {
	return responseOptions{
		parser:              c.opts.Parser,
		errorMapper:         c.opts.ErrorMapper,
		parseZeroLengthBody: c.opts.ParseZeroLengthBody,
		driverName:          c.driverName(),
	}
}

func (c *Connection) retryEnabled(override *bool) bool {
	if override != nil {
		return *override
	}
	return c.opts.RetryEnabled
}

func (c *Connection) driverName() string {
	if c.driver != nil {
		return c.driver.Name
	}
	return ""
}

// userAgent renders "libcloud/<version> (<driver>) (token)..." matching the
// library identity format.
func (c *Connection) userAgent() string {
	var b strings.Builder
	fmt.Fprintf(&b, "libcloud/%s", Version)
	if name := c.driverName(); name != "" {
		fmt.Fprintf(&b, " (%s)", name)
	}
	for _, tok := range c.uaTokens {
		fmt.Fprintf(&b, " (%s)", tok)
	}
	return b.String()
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// encodeParams renders query parameters in stable key order.
func encodeParams(params map[string]string) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	return values.Encode()
}

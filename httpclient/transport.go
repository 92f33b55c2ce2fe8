package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpproxy"
)

// netTransport is the production Transport built on net/http. One instance
// serves one Connection; it keeps a persistent client so keep-alive sessions
// survive across requests.
type netTransport struct {
	client  *http.Client
	baseURL string
	proxy   *url.URL
}

// NewNetTransport returns an unconnected net/http-backed Transport.
func NewNetTransport() Transport {
	return &netTransport{}
}

func (t *netTransport) Connect(opts ConnectOptions) error {
	tlsCfg, err := tlsConfigFromCredential(opts.Credential)
	if err != nil {
		return err
	}

	inner := &http.Transport{
		TLSClientConfig: tlsCfg,
		Proxy:           t.proxyFunc(),
	}

	scheme := "http"
	if opts.Secure {
		scheme = "https"
	}
	t.baseURL = fmt.Sprintf("%s://%s", scheme, joinHostPort(opts.Host, opts.Port, opts.Secure))
	t.client = &http.Client{
		Transport: inner,
		Timeout:   opts.Timeout,
	}
	if opts.ProxyURL != "" {
		if err := t.SetProxyURL(opts.ProxyURL); err != nil {
			return err
		}
	}
	return nil
}

func (t *netTransport) RoundTrip(ctx context.Context, wire *WireRequest) (*WireResponse, error) {
	if t.client == nil {
		return nil, NewValidationError("transport is not connected", "")
	}

	var body *bytes.Reader
	if len(wire.Body) > 0 {
		body = bytes.NewReader(wire.Body)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, wire.Method, t.baseURL+wire.URL, body)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("failed to build request: %v", err), "")
	}

	for k, v := range wire.Headers {
		switch {
		case strings.EqualFold(k, "Host"):
			// net/http takes the Host from the request field, not the map.
			req.Host = v
		case strings.EqualFold(k, "Accept-Encoding"):
			// Leave content negotiation to net/http so its transparent gzip
			// decompression stays enabled.
		default:
			req.Header.Set(k, v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}

	return &WireResponse{
		StatusCode: resp.StatusCode,
		Reason:     strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "),
		Headers:    resp.Header,
		Body:       resp.Body,
	}, nil
}

func (t *netTransport) SetProxyURL(proxyURL string) error {
	parsed, err := url.Parse(proxyURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return NewValidationError(fmt.Sprintf("invalid proxy URL %q", proxyURL), "proxy_url")
	}
	t.proxy = parsed
	if t.client != nil {
		if inner, ok := t.client.Transport.(*http.Transport); ok {
			inner.Proxy = t.proxyFunc()
		}
	}
	return nil
}

func (t *netTransport) Close() error {
	if t.client != nil {
		t.client.CloseIdleConnections()
	}
	return nil
}

// proxyFunc resolves the proxy for each request: an explicitly configured
// proxy wins, otherwise the standard environment variables apply.
func (t *netTransport) proxyFunc() func(*http.Request) (*url.URL, error) {
	if t.proxy != nil {
		cfg := &httpproxy.Config{
			HTTPProxy:  t.proxy.String(),
			HTTPSProxy: t.proxy.String(),
		}
		fromCfg := cfg.ProxyFunc()
		return func(req *http.Request) (*url.URL, error) {
			return fromCfg(req.URL)
		}
	}
	fromEnv := httpproxy.FromEnvironment().ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return fromEnv(req.URL)
	}
}

func tlsConfigFromCredential(cred Credential) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	if cred.CACertFile != "" {
		pem, err := os.ReadFile(cred.CACertFile)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("failed to read CA certificate %s: %v", cred.CACertFile, err), "ca_cert_file")
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, NewValidationError(fmt.Sprintf("no certificates found in %s", cred.CACertFile), "ca_cert_file")
		}
		cfg.RootCAs = pool
	}

	if cred.CertFile != "" {
		keyFile := cred.KeyFile
		if keyFile == "" {
			keyFile = cred.CertFile
		}
		pair, err := tls.LoadX509KeyPair(cred.CertFile, keyFile)
		if err != nil {
			return nil, NewValidationError(fmt.Sprintf("failed to load client certificate %s: %v", cred.CertFile, err), "cert_file")
		}
		cfg.Certificates = []tls.Certificate{pair}
	}

	return cfg, nil
}

// joinHostPort renders host:port, omitting the default port for the scheme.
func joinHostPort(host string, port int, secure bool) string {
	if port == 0 || (secure && port == 443) || (!secure && port == 80) {
		return host
	}
	return fmt.Sprintf("%s:%d", host, port)
}

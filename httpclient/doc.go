// Package httpclient is the transport core shared by every provider driver:
// a connection abstraction that builds requests against a remote endpoint,
// classifies and parses responses, optionally retries transient failures,
// and polls asynchronous job APIs until completion.
//
// Connections
//   - A Connection owns the endpoint identity (host, port, security, path
//     prefix, timeout, proxy) and a single transport session. It is not safe
//     for concurrent requests; give concurrent callers their own instances.
//   - Provider behavior is injected through Hooks (default params, default
//     headers, pre-connect mutation, body encoding) instead of subclassing.
//   - Credentials are a tagged sum (key, user+key, certificate or
//     key+certificate) attached once at construction and never logged.
//
// Responses
//   - Request returns a buffered, parsed Response; construction fails with a
//     typed error on non-success statuses, so callers never see half-built
//     values.
//   - RequestRaw returns a RawResponse whose body is read lazily from the
//     still-open transport stream and cached after first access.
//
// Retries and polling
//   - When retries are enabled (per call, or by configuration default) the
//     transport exchange runs under a retry.Coordinator; only transient
//     failure kinds are re-attempted.
//   - PollingConnection layers the async job protocol on top: initiate,
//     derive poll parameters, re-request until a completion predicate holds
//     or the polling deadline elapses.
package httpclient

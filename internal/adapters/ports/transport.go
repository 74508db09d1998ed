package ports

import "context"

// Transport posts an encoded request body to the gateway and returns the raw
// response body.
//
// Implementations own TLS, timeouts and connection handling. Any failure to
// obtain a response body must be reported as a *errors.ConnectionError from
// pkg/errors; callers do not retry.
type Transport interface {
	Post(ctx context.Context, url, body string) (string, error)
}

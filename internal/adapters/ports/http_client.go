package ports

import "net/http"

// HTTPClient is the part of *http.Client the HTTPS transport uses. Tests
// substitute a recording fake.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

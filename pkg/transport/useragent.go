package transport

import "net/http"

// UserAgentTransport wraps an http.RoundTripper and adds a User-Agent header.
type UserAgentTransport struct {
	http.RoundTripper
	UserAgent string
}

// RoundTrip executes a single HTTP transaction, adding the User-Agent header.
func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("User-Agent", t.UserAgent)
	return t.RoundTripper.RoundTrip(cloned)
}

package transport

import (
	"net/http"
	"net/url"
)

// CookieSessionStore answers whether a session cookie exists for an endpoint.
type CookieSessionStore struct {
	jar http.CookieJar
}

// NewCookieSessionStore wraps a cookie jar.
func NewCookieSessionStore(jar http.CookieJar) *CookieSessionStore {
	return &CookieSessionStore{jar: jar}
}

// HasActiveSession reports whether the jar holds at least one unexpired cookie for endpoint.
// The jar drops expired cookies itself, so a server-side expiry shows up as "no session".
func (s *CookieSessionStore) HasActiveSession(endpoint *url.URL) bool {
	if s.jar == nil || endpoint == nil {
		return false
	}
	return len(s.jar.Cookies(endpoint)) > 0
}

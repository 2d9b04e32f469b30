package transport

import (
	"fmt"
	"math"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitTransport delays requests so the backend sees at most the configured rate.
type RateLimitTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

// NewRateLimitTransport allows perSecond requests per second with a burst of one second's worth.
func NewRateLimitTransport(next http.RoundTripper, perSecond float64) *RateLimitTransport {
	burst := int(math.Max(1, math.Ceil(perSecond)))
	return &RateLimitTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// RoundTrip waits for a token, honouring the request context.
func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return t.next.RoundTrip(req)
}

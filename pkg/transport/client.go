package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Options configures a Client.
type Options struct {
	// Timeout is the total time limit for one request.
	Timeout time.Duration
	// UserAgent is sent with every request when set.
	UserAgent string
	// RequestsPerSecond throttles outgoing requests; zero disables throttling.
	RequestsPerSecond float64
	// MaxResponseSize caps a response body in bytes; zero means DefaultMaxResponseSize.
	MaxResponseSize int64
	// Base is the innermost round tripper. Tests use it to redirect traffic.
	Base http.RoundTripper
}

// Client issues the GET and POST calls the photo backends are built on. It owns the cookie
// jar sessions live in.
type Client struct {
	httpClient *http.Client
	jar        http.CookieJar
	maxBody    int64
}

// ErrResponseTooLarge is returned for bodies over the size cap.
var ErrResponseTooLarge = errors.New("response body too large")

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NewClient creates a Client with a public-suffix aware cookie jar.
func NewClient(opts Options) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	base := opts.Base
	if base == nil {
		base = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialerTimeout,
				KeepAlive: KeepAlive,
			}).DialContext,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
		}
	}

	var rt http.RoundTripper = &LoggingTransport{RoundTripper: base}
	if opts.RequestsPerSecond > 0 {
		rt = NewRateLimitTransport(rt, opts.RequestsPerSecond)
	}
	if opts.UserAgent != "" {
		rt = &UserAgentTransport{RoundTripper: rt, UserAgent: opts.UserAgent}
	}

	maxBody := opts.MaxResponseSize
	if maxBody <= 0 {
		maxBody = DefaultMaxResponseSize
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: rt,
			Jar:       jar,
		},
		jar:     jar,
		maxBody: maxBody,
	}, nil
}

// HTTPClient exposes the underlying client for callers that speak HTTP directly.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// Sessions returns a SessionStore backed by the client's cookie jar.
func (c *Client) Sessions() *CookieSessionStore {
	return NewCookieSessionStore(c.jar)
}

// Get issues a GET request with the query fields appended to rawURL.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing url %q: %w", rawURL, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	return c.do(req)
}

// Post issues a form-encoded POST request. Header values are added to the request.
func (c *Client) Post(ctx context.Context, rawURL string, form url.Values, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error repeats the full URL, query included.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("%s %s: %w", req.Method, redactURL(req.URL), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%s %s: %w (over %d bytes)", req.Method, redactURL(req.URL), ErrResponseTooLarge, c.maxBody)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decoding JSON response: %w", err)
	}
	return nil
}

// Bytes returns the raw body.
func (r *Response) Bytes() []byte {
	return r.Body
}

// IsJSON reports whether the server labelled the body as JSON.
func (r *Response) IsJSON() bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

package transport

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dixieflatline76/Vista/util/log"
	"github.com/google/uuid"
)

// LoggingTransport logs every request and its outcome at debug level. Sensitive query and
// form fields are redacted.
type LoggingTransport struct {
	http.RoundTripper
}

// RoundTrip logs around the wrapped round tripper.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := req.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, id)
	}

	form := ""
	if req.Method == http.MethodPost && req.Body != nil && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			raw, _ := io.ReadAll(body)
			body.Close()
			form = redactForm(raw)
		}
	}

	start := time.Now()
	if form != "" {
		log.Debugf("[%s] %s %s form: %s", id, req.Method, redactURL(req.URL), form)
	} else {
		log.Debugf("[%s] %s %s", id, req.Method, redactURL(req.URL))
	}

	resp, err := t.RoundTripper.RoundTrip(req)
	if err != nil {
		log.Debugf("[%s] failed after %v: %v", id, time.Since(start), err)
		return nil, err
	}
	log.Debugf("[%s] %d %s (%v)", id, resp.StatusCode, resp.Header.Get("Content-Type"), time.Since(start))
	return resp, nil
}

// redactURL returns the URL with sensitive query values replaced.
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	if !redactValues(q) {
		return u.String()
	}
	cp := *u
	cp.RawQuery = q.Encode()
	return cp.String()
}

func redactForm(raw []byte) string {
	values, err := url.ParseQuery(string(bytes.TrimSpace(raw)))
	if err != nil {
		return redacted
	}
	redactValues(values)
	return values.Encode()
}

func redactValues(values url.Values) bool {
	changed := false
	for _, field := range sensitiveFields {
		if _, ok := values[field]; ok {
			values.Set(field, redacted)
			changed = true
		}
	}
	return changed
}

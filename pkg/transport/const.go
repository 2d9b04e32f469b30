package transport

import "time"

const (
	// DialerTimeout is the timeout for establishing a TCP connection.
	DialerTimeout = 15 * time.Second

	// TLSHandshakeTimeout is the time limit for the TLS handshake for HTTPS.
	TLSHandshakeTimeout = 10 * time.Second

	// ResponseHeaderTimeout is the time limit for receiving response headers
	// after the request has been written.
	ResponseHeaderTimeout = 15 * time.Second

	// KeepAlive is the duration for TCP keep-alive packets.
	KeepAlive = 30 * time.Second

	// DefaultMaxResponseSize caps a response body. Original photos can be large; nothing else
	// comes close.
	DefaultMaxResponseSize = 256 << 20

	// RequestIDHeader carries the id logged for each request.
	RequestIDHeader = "X-Request-ID"

	redacted = "[REDACTED]"
)

// sensitiveFields are never written to the log.
var sensitiveFields = []string{"password"}

package testutil

import (
	"net/http"
	"time"

	"consentd/pkg/requestcontext"
)

// WithRequestID adds a correlation ID to the request context, simulating the
// request-id middleware.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithClientMetadata adds client IP and User-Agent to the request context,
// simulating the metadata middleware.
func WithClientMetadata(req *http.Request, clientIP, userAgent string) *http.Request {
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), clientIP, userAgent))
}

// WithTime pins the request-scoped clock so rate-limit decisions in tests are
// deterministic.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

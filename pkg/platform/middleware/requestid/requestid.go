// Package requestid assigns each request a correlation ID. An inbound
// X-Request-ID header is trusted and reused so traces stay joined across
// edge hops; otherwise a fresh UUID is generated. The ID is placed in the
// context and echoed on the response.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"consentd/pkg/requestcontext"
)

// Header is the correlation header read from requests and set on responses.
const Header = "X-Request-ID"

// maxInboundLength guards against abusive inbound correlation values.
const maxInboundLength = 128

// Middleware resolves the request correlation ID and stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" || len(requestID) > maxInboundLength {
			requestID = uuid.NewString()
		}
		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package ip2wlib

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDMaxLength = 128
)

var requestIDRegexp = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type requestIDContextKey struct{}

// RequestIDFromContext returns an identifier of the request or empty
// string.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey{}).(string)

	return requestID
}

// requestIDMiddleware reuses X-Request-ID of the client if it looks
// sane and generates a new one otherwise.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		requestID := req.Header.Get(RequestIDHeader)

		if len(requestID) > requestIDMaxLength || !requestIDRegexp.MatchString(requestID) {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(req.Context(), requestIDContextKey{}, requestID)

		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

// settingsMiddleware attaches the same settings to each request.
func settingsMiddleware(settings *Settings) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if settings == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(WithSettings(req.Context(), settings)))
		})
	}
}

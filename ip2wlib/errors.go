package ip2wlib

import (
	"errors"
	"net/http"
)

var (
	// ErrBadRequest is returned by Pipeline if there is no IP address
	// to work with.
	ErrBadRequest = errors.New("ip address is missing")

	// ErrConfigMissing is returned by Pipeline if request context
	// carries no Settings.
	ErrConfigMissing = errors.New("settings are missing")

	ErrGeoLookupFailed     = errors.New("cannot resolve coordinates")
	ErrWeatherLookupFailed = errors.New("cannot resolve weather")

	// ErrUpstreamAuthMissing is returned by resolvers which have no
	// token for their provider. No outbound call is done in that case.
	ErrUpstreamAuthMissing = errors.New("auth token is missing")

	// ErrUpstreamUnavailable is returned by Fetcher when it runs out of
	// attempts.
	ErrUpstreamUnavailable = errors.New("upstream is unavailable")

	// ErrUpstreamMalformed is returned if provider has responded with
	// something unexpected: invalid JSON or JSON without required
	// fields.
	ErrUpstreamMalformed = errors.New("upstream response is malformed")

	ErrCircuitBreakerOpened = errors.New("circuit breaker is opened")

	errCircuitBreakerIgnore = errors.New("this error should be ignored by circuit breaker")
)

type httpError struct {
	message    string
	err        error
	statusCode int
}

// Message is a text which is safe to show to a client.
func (h *httpError) Message() string {
	if h == nil {
		return ""
	}

	return h.message
}

func (h *httpError) StatusCode() int {
	if h != nil && h.statusCode != 0 {
		return h.statusCode
	}

	return http.StatusInternalServerError
}

func (h *httpError) Unwrap() error {
	if h == nil {
		return nil
	}

	return h.err
}

func (h *httpError) Error() string {
	switch {
	case h == nil:
		return ""
	case h.err != nil && h.message != "":
		return h.message + ": " + h.err.Error()
	case h.err != nil:
		return h.err.Error()
	}

	return h.message
}

// newPipelineHTTPError converts an error of the pipeline into something
// a client can see. Upstream details are never exposed.
func newPipelineHTTPError(err error, settings *Settings) *httpError {
	if errors.Is(err, ErrBadRequest) {
		statusCode := settings.GetMissingIPStatus()
		message := ""

		if statusCode == http.StatusBadRequest {
			message = "Bad Request"
		}

		return &httpError{
			message:    message,
			err:        err,
			statusCode: statusCode,
		}
	}

	return &httpError{
		err:        err,
		statusCode: http.StatusInternalServerError,
	}
}

package ip2wlib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

type httpClient struct {
	userAgent      string
	client         *http.Client
	rateLimiter    *rate.Limiter
	circuitBreaker *circuitBreaker
}

func (h httpClient) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", h.userAgent)

	if h.circuitBreaker == nil {
		return h.do(req.Context(), req)
	}

	return h.circuitBreaker.Do(req.Context(), func(ctx context.Context) (*http.Response, error) {
		return h.do(ctx, req)
	})
}

func (h httpClient) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := h.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("cannot wait for rate limiter: %w: %w", errCircuitBreakerIgnore, err)
	}

	resp, err := h.client.Do(req.WithContext(ctx))
	if err != nil {
		if resp != nil {
			flushResponse(resp.Body)
		}

		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		flushResponse(resp.Body)

		return nil, fmt.Errorf("netloc has responded with %s", resp.Status)
	}

	return resp, nil
}

func flushResponse(body io.ReadCloser) {
	io.Copy(io.Discard, body) // nolint: errcheck
	body.Close()
}

// NewHTTPClient prepares a new HTTP client, wraps it with rate limiter,
// circuit breaker, sets a user agent etc. Any response with non-2xx
// status code is converted into error.
//
// Please see https://pkg.go.dev/golang.org/x/time/rate to get a meaning
// of rate limiter parameters. rateLimitInterval of 0 means that there
// is no rate limit at all.
//
// A meaning of circuit breaker parameters:
//
// circuitBreakerOpenThreshold - this is a number of failures which
// circuit breaker tolerates. So, if you pass 3 here, then 4th failure
// in a row switches circuit breaker into OPEN state and blocks access
// to a target. 0 disables circuit breaker.
//
// circuitBreakerResetFailuresTimeout - is tightly coupled with
// circuitBreakerOpenThreshold. Each time period when circuit breaker
// is closed, we try to reset a failure counter.
//
// circuitBreakerHalfOpenTimeout - when circuit breaker is opened, we
// wait for this time period and switch into HALF_OPEN state. Within
// this state we allow 1 attempt. If this attempt fails, then it goes
// into OPEN state again. If succeed - goes to CLOSED.
func NewHTTPClient(client *http.Client,
	userAgent string,
	rateLimitInterval time.Duration,
	rateLimitBurst int,
	circuitBreakerOpenThreshold uint32,
	circuitBreakerHalfOpenTimeout, circuitBreakerResetFailuresTimeout time.Duration) HTTPClient {
	limit := rate.Inf

	if rateLimitInterval > 0 {
		limit = rate.Every(rateLimitInterval)
	}

	if rateLimitBurst < 1 {
		rateLimitBurst = 1
	}

	rv := httpClient{
		userAgent:   userAgent,
		client:      client,
		rateLimiter: rate.NewLimiter(limit, rateLimitBurst),
	}

	if circuitBreakerOpenThreshold > 0 {
		rv.circuitBreaker = newCircuitBreaker(circuitBreakerOpenThreshold,
			circuitBreakerHalfOpenTimeout,
			circuitBreakerResetFailuresTimeout)
	}

	return rv
}

package ip2wlib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"
)

const fetcherMaxResponseSize = 1024 * 1024

// FetchOptions define how Fetcher performs a single logical call.
type FetchOptions struct {
	// Timeout bounds each attempt.
	Timeout time.Duration

	// MaxAttempts is a total number of attempts. Values less than 1
	// are treated as 1.
	MaxAttempts int

	// BackoffBase is an initial delay of exponential backoff between
	// attempts. 0 means no delay at all.
	BackoffBase time.Duration

	// BackoffMax caps a delay between attempts if it is positive.
	BackoffMax time.Duration
}

func (f FetchOptions) attempts() int {
	if f.MaxAttempts < 1 {
		return 1
	}

	return f.MaxAttempts
}

func (f FetchOptions) backoff() retry.Backoff {
	var backoff retry.Backoff

	if f.BackoffBase > 0 {
		backoff = retry.NewExponential(f.BackoffBase)

		if f.BackoffMax > 0 {
			backoff = retry.WithCappedDuration(f.BackoffMax, backoff)
		}
	} else {
		backoff = retry.BackoffFunc(func() (time.Duration, bool) {
			return 0, false
		})
	}

	return retry.WithMaxRetries(uint64(f.attempts()-1), backoff)
}

type jsonFetcher struct {
	client HTTPClient
	logger Logger
}

func (f *jsonFetcher) FetchJSON(ctx context.Context, rawURL string, opts FetchOptions, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("cannot build a request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	logURL := redactURL(req.URL)
	attempt := 0

	err = retry.Do(ctx, opts.backoff(), func(ctx context.Context) error {
		attempt++

		err := f.fetch(ctx, req, opts.Timeout, target)

		switch {
		case err == nil:
			return nil
		case errors.Is(err, ErrUpstreamMalformed):
			return err
		}

		f.logger.FetchFailed(logURL, attempt, err)

		return retry.RetryableError(err)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUpstreamMalformed):
		return err
	}

	return fmt.Errorf("%w: %d attempts: %w", ErrUpstreamUnavailable, attempt, err)
}

func (f *jsonFetcher) fetch(ctx context.Context, req *http.Request, timeout time.Duration, target interface{}) error {
	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := f.client.Do(req.Clone(ctx))
	if err != nil {
		return fmt.Errorf("cannot send a request: %w", err)
	}

	defer flushResponse(resp.Body)

	body, err := io.ReadAll(io.LimitReader(resp.Body, fetcherMaxResponseSize))
	if err != nil {
		return fmt.Errorf("cannot read a response: %w", err)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("cannot parse a response: %w: %w", ErrUpstreamMalformed, err)
	}

	return nil
}

// redactURL drops a query string: tokens live there.
func redactURL(u *url.URL) string {
	clean := *u
	clean.RawQuery = ""
	clean.User = nil

	return clean.String()
}

// NewFetcher returns a Fetcher which performs GET requests with a given
// client. Transport errors, timeouts and non-2xx responses are retried
// up to FetchOptions.MaxAttempts times. Invalid JSON is not retried.
func NewFetcher(client HTTPClient, logger Logger) Fetcher {
	return &jsonFetcher{
		client: client,
		logger: logger,
	}
}

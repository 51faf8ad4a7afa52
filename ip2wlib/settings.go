package ip2wlib

import (
	"context"
	"net/http"
	"time"
)

const (
	DefaultRequestTimeout  = 10 * time.Second
	DefaultRequestMaxRetry = 5
	DefaultLang            = "ru"
	DefaultUnits           = "metric"
	DefaultMissingIPStatus = http.StatusBadRequest
)

// Settings is a configuration record which is shared by all requests.
// It is built once on startup and never changed after that: resolvers
// get it with each call instead of looking into some global state.
type Settings struct {
	IPInfoToken         string
	OpenWeatherMapToken string

	// RequestTimeout bounds each outbound attempt. There is no overall
	// deadline across retries.
	RequestTimeout time.Duration

	// RequestMaxRetry is a number of attempts, not retries: 1 means
	// 'try once and give up'.
	RequestMaxRetry int

	// BackoffBase is an initial delay between attempts. 0 disables
	// backoff and attempts go one after another.
	BackoffBase time.Duration
	BackoffMax  time.Duration

	Lang  string
	Units string

	// MissingIPStatus is a status code which is returned if pipeline
	// has got no IP address. Either 400 or 500.
	MissingIPStatus int
}

func (s *Settings) GetRequestTimeout() time.Duration {
	if s.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}

	return s.RequestTimeout
}

func (s *Settings) GetRequestMaxRetry() int {
	if s.RequestMaxRetry < 1 {
		return 1
	}

	return s.RequestMaxRetry
}

func (s *Settings) GetLang() string {
	if s.Lang == "" {
		return DefaultLang
	}

	return s.Lang
}

func (s *Settings) GetUnits() string {
	if s.Units == "" {
		return DefaultUnits
	}

	return s.Units
}

func (s *Settings) GetMissingIPStatus() int {
	if s == nil || s.MissingIPStatus == 0 {
		return DefaultMissingIPStatus
	}

	return s.MissingIPStatus
}

// FetchOptions returns options of the outbound calls based on these
// settings.
func (s *Settings) FetchOptions() FetchOptions {
	return FetchOptions{
		Timeout:     s.GetRequestTimeout(),
		MaxAttempts: s.GetRequestMaxRetry(),
		BackoffBase: s.BackoffBase,
		BackoffMax:  s.BackoffMax,
	}
}

type settingsContextKey struct{}

// WithSettings returns a context which carries given settings.
func WithSettings(ctx context.Context, settings *Settings) context.Context {
	return context.WithValue(ctx, settingsContextKey{}, settings)
}

// SettingsFromContext returns settings stored by WithSettings or nil.
func SettingsFromContext(ctx context.Context) *Settings {
	if ctx == nil {
		return nil
	}

	settings, _ := ctx.Value(settingsContextKey{}).(*Settings)

	return settings
}

package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/9seconds/ip2w/ip2wlib"
	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/hjson/hjson-go/v4"
)

const (
	DefaultListen         = "127.0.0.1:8080"
	DefaultRateLimitBurst = 10
	DefaultLoggerLevel    = "info"
	DefaultLoggerFormat   = "json"

	envPrefix = "IP2W_"
)

// seconds is a duration which is written as a number of seconds in
// configuration files.
type seconds float64

func (s seconds) Duration() time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

type config struct {
	Listen string `json:"LISTEN" toml:"LISTEN" env:"LISTEN"`

	IPInfoToken         string `json:"IPINFO_TOKEN" toml:"IPINFO_TOKEN" env:"IPINFO_TOKEN"`
	OpenWeatherMapToken string `json:"OPENWEATHERMAP_TOKEN" toml:"OPENWEATHERMAP_TOKEN" env:"OPENWEATHERMAP_TOKEN"`

	RequestTimeout     seconds `json:"REQUEST_TIMEOUT" toml:"REQUEST_TIMEOUT" env:"REQUEST_TIMEOUT"`
	RequestMaxRetry    int     `json:"REQUEST_MAX_RETRY" toml:"REQUEST_MAX_RETRY" env:"REQUEST_MAX_RETRY"`
	RequestBackoffBase seconds `json:"REQUEST_BACKOFF_BASE" toml:"REQUEST_BACKOFF_BASE" env:"REQUEST_BACKOFF_BASE"`
	RequestBackoffMax  seconds `json:"REQUEST_BACKOFF_MAX" toml:"REQUEST_BACKOFF_MAX" env:"REQUEST_BACKOFF_MAX"`

	RateLimitInterval seconds `json:"RATE_LIMIT_INTERVAL" toml:"RATE_LIMIT_INTERVAL" env:"RATE_LIMIT_INTERVAL"`
	RateLimitBurst    int     `json:"RATE_LIMIT_BURST" toml:"RATE_LIMIT_BURST" env:"RATE_LIMIT_BURST"`

	CircuitBreakerOpenThreshold        uint32  `json:"CIRCUIT_BREAKER_OPEN_THRESHOLD" toml:"CIRCUIT_BREAKER_OPEN_THRESHOLD" env:"CIRCUIT_BREAKER_OPEN_THRESHOLD"`
	CircuitBreakerHalfOpenTimeout      seconds `json:"CIRCUIT_BREAKER_HALF_OPEN_TIMEOUT" toml:"CIRCUIT_BREAKER_HALF_OPEN_TIMEOUT" env:"CIRCUIT_BREAKER_HALF_OPEN_TIMEOUT"`
	CircuitBreakerResetFailuresTimeout seconds `json:"CIRCUIT_BREAKER_RESET_FAILURES_TIMEOUT" toml:"CIRCUIT_BREAKER_RESET_FAILURES_TIMEOUT" env:"CIRCUIT_BREAKER_RESET_FAILURES_TIMEOUT"`

	Lang            string `json:"LANG" toml:"LANG" env:"LANG"`
	Units           string `json:"UNITS" toml:"UNITS" env:"UNITS"`
	MissingIPStatus int    `json:"MISSING_IP_STATUS" toml:"MISSING_IP_STATUS" env:"MISSING_IP_STATUS"`

	Logger configLogger `json:"LOGGER_CONF" toml:"LOGGER_CONF" envPrefix:"LOGGER_"`
}

func (c *config) GetListen() string {
	if c.Listen == "" {
		return DefaultListen
	}

	return c.Listen
}

func (c *config) GetRequestTimeout() time.Duration {
	if c.RequestTimeout == 0 {
		return ip2wlib.DefaultRequestTimeout
	}

	return c.RequestTimeout.Duration()
}

func (c *config) GetRequestMaxRetry() int {
	if c.RequestMaxRetry == 0 {
		return ip2wlib.DefaultRequestMaxRetry
	}

	return c.RequestMaxRetry
}

func (c *config) GetRateLimitBurst() int {
	if c.RateLimitBurst == 0 {
		return DefaultRateLimitBurst
	}

	return c.RateLimitBurst
}

func (c *config) GetMissingIPStatus() int {
	if c.MissingIPStatus == 0 {
		return ip2wlib.DefaultMissingIPStatus
	}

	return c.MissingIPStatus
}

// Settings converts this config into a record which is passed to
// each request.
func (c *config) Settings() *ip2wlib.Settings {
	return &ip2wlib.Settings{
		IPInfoToken:         c.IPInfoToken,
		OpenWeatherMapToken: c.OpenWeatherMapToken,
		RequestTimeout:      c.GetRequestTimeout(),
		RequestMaxRetry:     c.GetRequestMaxRetry(),
		BackoffBase:         c.RequestBackoffBase.Duration(),
		BackoffMax:          c.RequestBackoffMax.Duration(),
		Lang:                c.Lang,
		Units:               c.Units,
		MissingIPStatus:     c.GetMissingIPStatus(),
	}
}

type configLogger struct {
	Level  string `json:"level" toml:"level" env:"LEVEL"`
	Format string `json:"format" toml:"format" env:"FORMAT"`
}

func (c configLogger) GetLevel() string {
	if c.Level == "" {
		return DefaultLoggerLevel
	}

	return strings.ToLower(c.Level)
}

func (c configLogger) GetFormat() string {
	if c.Format == "" {
		return DefaultLoggerFormat
	}

	return strings.ToLower(c.Format)
}

// parseConfig reads a config file (HJSON or JSON, TOML if a file has
// .toml extension) and applies IP2W_ prefixed environment variables on
// top of it. Absent tokens are fine: resolvers check them on their own.
func parseConfig(path string) (*config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	conf := config{}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(content), &conf); err != nil {
			return nil, fmt.Errorf("cannot parse toml: %w", err)
		}
	} else if err := decodeHJSON(content, &conf); err != nil {
		return nil, err
	}

	if err := env.ParseWithOptions(&conf, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("cannot parse environment variables: %w", err)
	}

	if err := validateConfig(&conf); err != nil {
		return nil, err
	}

	return &conf, nil
}

func decodeHJSON(content []byte, conf *config) error {
	rawMap := map[string]interface{}{}

	if err := hjson.Unmarshal(content, &rawMap); err != nil {
		return fmt.Errorf("cannot parse json: %w", err)
	}

	rawBytes, err := json.Marshal(rawMap)
	if err != nil {
		return fmt.Errorf("cannot normalize json: %w", err)
	}

	if err := json.Unmarshal(rawBytes, conf); err != nil {
		return fmt.Errorf("incorrect config structure: %w", err)
	}

	return nil
}

func validateConfig(conf *config) error {
	if _, _, err := net.SplitHostPort(conf.GetListen()); err != nil {
		return fmt.Errorf("incorrect host:port for listen: %w", err)
	}

	switch {
	case conf.RequestTimeout < 0:
		return fmt.Errorf("incorrect request timeout %v", conf.RequestTimeout)
	case conf.RequestMaxRetry < 0:
		return fmt.Errorf("incorrect request max retry %d", conf.RequestMaxRetry)
	case conf.RequestBackoffBase < 0 || conf.RequestBackoffMax < 0:
		return fmt.Errorf("incorrect request backoff %v/%v", conf.RequestBackoffBase, conf.RequestBackoffMax)
	case conf.RateLimitInterval < 0 || conf.RateLimitBurst < 0:
		return fmt.Errorf("incorrect rate limit %v/%d", conf.RateLimitInterval, conf.RateLimitBurst)
	case conf.CircuitBreakerHalfOpenTimeout < 0 || conf.CircuitBreakerResetFailuresTimeout < 0:
		return fmt.Errorf("incorrect circuit breaker timeouts %v/%v",
			conf.CircuitBreakerHalfOpenTimeout, conf.CircuitBreakerResetFailuresTimeout)
	}

	switch conf.GetMissingIPStatus() {
	case http.StatusBadRequest, http.StatusInternalServerError:
	default:
		return fmt.Errorf("incorrect missing ip status %d", conf.MissingIPStatus)
	}

	switch conf.Logger.GetFormat() {
	case "json", "console":
	default:
		return fmt.Errorf("unknown logger format %s", conf.Logger.Format)
	}

	return nil
}

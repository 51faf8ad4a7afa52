package ip2wlib

import (
	"context"
	"net/http"
)

type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Fetcher fetches a given URL and decodes a JSON response into target.
//
// If all attempts are failed, it returns an error which wraps
// ErrUpstreamUnavailable. If response is not a valid JSON, it returns
// an error which wraps ErrUpstreamMalformed.
type Fetcher interface {
	FetchJSON(ctx context.Context, url string, opts FetchOptions, target interface{}) error
}

// GeoResolver turns an IP address into coordinates. On any error it
// has to return zero Coordinates.
type GeoResolver interface {
	Name() string
	Locate(ctx context.Context, ip string, settings *Settings) (Coordinates, error)
}

// WeatherResolver returns a current weather at given coordinates. On any
// error it has to return nil payload.
type WeatherResolver interface {
	Name() string
	Weather(ctx context.Context, coords Coordinates, settings *Settings) (*WeatherPayload, error)
}

type Logger interface {
	LookupError(ip, name string, err error)
	TokenMissing(name string)
	FetchFailed(url string, attempt int, err error)

	// RequestServed is called once per matched request. clientAddr is
	// an address of the client, proxy headers are taken into account.
	RequestServed(requestID, clientAddr, ip string, statusCode int, err error)
}

package ip2wlib

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Pipeline resolves a weather for IP address: it asks GeoResolver
// for coordinates first and then asks WeatherResolver for a weather
// at these coordinates.
//
// Pipeline takes Settings from a context of the call (see
// WithSettings). Any error of resolvers is wrapped into
// ErrGeoLookupFailed or ErrWeatherLookupFailed so a caller has to
// distinguish only a stage.
type Pipeline struct {
	geo     GeoResolver
	weather WeatherResolver
	logger  Logger
}

// Resolve returns a JSON encoded WeatherSummary.
func (p *Pipeline) Resolve(ctx context.Context, ip string) ([]byte, error) {
	summary, err := p.Summary(ctx, ip)
	if err != nil {
		return nil, err
	}

	buf := bytes.Buffer{}
	encoder := json.NewEncoder(&buf)

	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(summary); err != nil {
		return nil, fmt.Errorf("cannot encode a summary: %w", err)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Summary returns a projection of the weather at a location of ip.
func (p *Pipeline) Summary(ctx context.Context, ip string) (WeatherSummary, error) {
	if ip == "" {
		return WeatherSummary{}, ErrBadRequest
	}

	settings := SettingsFromContext(ctx)
	if settings == nil {
		return WeatherSummary{}, ErrConfigMissing
	}

	coords, err := p.geo.Locate(ctx, ip, settings)
	if err != nil {
		p.logLookupError(ip, p.geo.Name(), err)

		return WeatherSummary{}, fmt.Errorf("%w: %w", ErrGeoLookupFailed, err)
	}

	if !coords.OK() {
		return WeatherSummary{}, ErrGeoLookupFailed
	}

	payload, err := p.weather.Weather(ctx, coords, settings)
	if err != nil {
		p.logLookupError(ip, p.weather.Name(), err)

		return WeatherSummary{}, fmt.Errorf("%w: %w", ErrWeatherLookupFailed, err)
	}

	if payload == nil {
		return WeatherSummary{}, ErrWeatherLookupFailed
	}

	summary, ok := payload.Summary()
	if !ok {
		err := fmt.Errorf("no weather conditions: %w", ErrUpstreamMalformed)

		p.logLookupError(ip, p.weather.Name(), err)

		return WeatherSummary{}, fmt.Errorf("%w: %w", ErrWeatherLookupFailed, err)
	}

	return summary, nil
}

func (p *Pipeline) logLookupError(ip, name string, err error) {
	if errors.Is(err, ErrUpstreamAuthMissing) {
		p.logger.TokenMissing(name)
	} else {
		p.logger.LookupError(ip, name, err)
	}
}

// NewPipeline returns a new Pipeline which uses given resolvers.
func NewPipeline(geo GeoResolver, weather WeatherResolver, logger Logger) *Pipeline {
	return &Pipeline{
		geo:     geo,
		weather: weather,
		logger:  logger,
	}
}

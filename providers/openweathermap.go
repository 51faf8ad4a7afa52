package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/9seconds/ip2w/ip2wlib"
)

const openWeatherMapURL = "https://api.openweathermap.org/data/2.5/weather"

type openWeatherMapProvider struct {
	fetcher ip2wlib.Fetcher
}

func (o openWeatherMapProvider) Name() string {
	return NameOpenWeatherMap
}

func (o openWeatherMapProvider) Weather(ctx context.Context,
	coords ip2wlib.Coordinates,
	settings *ip2wlib.Settings) (*ip2wlib.WeatherPayload, error) {
	if settings == nil || settings.OpenWeatherMapToken == "" {
		return nil, ip2wlib.ErrUpstreamAuthMissing
	}

	payload := &ip2wlib.WeatherPayload{}

	if err := o.fetcher.FetchJSON(ctx, o.buildURL(coords, settings), settings.FetchOptions(), payload); err != nil {
		return nil, fmt.Errorf("cannot fetch a weather: %w", err)
	}

	return payload, nil
}

func (o openWeatherMapProvider) buildURL(coords ip2wlib.Coordinates, settings *ip2wlib.Settings) string {
	getQuery := url.Values{}

	getQuery.Set("APPID", settings.OpenWeatherMapToken)
	getQuery.Set("lat", coords.Latitude)
	getQuery.Set("lon", coords.Longitude)
	getQuery.Set("lang", settings.GetLang())
	getQuery.Set("units", settings.GetUnits())

	return openWeatherMapURL + "?" + getQuery.Encode()
}

// NewOpenWeatherMap returns a WeatherResolver which uses current
// weather API of https://openweathermap.org.
func NewOpenWeatherMap(fetcher ip2wlib.Fetcher) ip2wlib.WeatherResolver {
	return openWeatherMapProvider{
		fetcher: fetcher,
	}
}

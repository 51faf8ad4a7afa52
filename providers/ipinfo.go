package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/9seconds/ip2w/ip2wlib"
)

const ipinfoBaseURL = "https://ipinfo.io/"

type ipinfoResponse struct {
	Loc string `json:"loc"`
}

type ipinfoProvider struct {
	fetcher ip2wlib.Fetcher
}

func (i ipinfoProvider) Name() string {
	return NameIPInfo
}

func (i ipinfoProvider) Locate(ctx context.Context, ip string, settings *ip2wlib.Settings) (ip2wlib.Coordinates, error) {
	if settings == nil || settings.IPInfoToken == "" {
		return ip2wlib.Coordinates{}, ip2wlib.ErrUpstreamAuthMissing
	}

	jsonResponse := ipinfoResponse{}

	err := i.fetcher.FetchJSON(ctx,
		i.buildURL(ip, settings.IPInfoToken),
		settings.FetchOptions(),
		&jsonResponse)
	if err != nil {
		return ip2wlib.Coordinates{}, fmt.Errorf("cannot fetch a location: %w", err)
	}

	coords, ok := ip2wlib.ParseCoordinates(jsonResponse.Loc)
	if !ok {
		return ip2wlib.Coordinates{}, fmt.Errorf("incorrect loc %q: %w", jsonResponse.Loc, ip2wlib.ErrUpstreamMalformed)
	}

	return coords, nil
}

func (i ipinfoProvider) buildURL(ip, token string) string {
	getQuery := url.Values{}

	getQuery.Set("token", token)

	return ipinfoBaseURL + url.PathEscape(ip) + "/geo?" + getQuery.Encode()
}

// NewIPInfo returns a GeoResolver which uses https://ipinfo.io. It
// takes coordinates from 'loc' field of the response.
func NewIPInfo(fetcher ip2wlib.Fetcher) ip2wlib.GeoResolver {
	return ipinfoProvider{
		fetcher: fetcher,
	}
}

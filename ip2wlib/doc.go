// This package contains everything ip2w needs to turn an IPv4 address
// into a short weather summary.
//
// ip2wlib is a core of the project. A main package is only an example
// on how to wire it: how to read a configuration, which providers to
// pass, how to log events.
//
// Pipeline is a main entity here. It takes an IP address, asks a
// GeoResolver for coordinates of this address, asks a WeatherResolver
// for a current weather at these coordinates and projects a provider
// payload into WeatherSummary. NewHTTPHandler serves it over HTTP.
//
// Both resolvers are expected to perform outbound calls with Fetcher:
// a bounded retry loop around HTTPClient which decodes JSON responses.
package ip2wlib

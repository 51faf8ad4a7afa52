// ip2w is a small HTTP service which tells a current weather at a
// location of the given IPv4 address.
//
//	$ curl http://127.0.0.1:8080/ip2w/8.8.8.8
//	{"city":"Mountain View","temp":15.2,"conditions":"clear sky"}
//
// Tool itself is organized into 2 logical parts:
//
// ip2wlib
//
// ip2wlib is a main package of the application. It contains Pipeline,
// a Fetcher of JSON documents with bounded retries, an HTTP client
// with rate limiter and circuit breaker and http.Handler which maps
// pipeline results to HTTP responses.
//
// Providers
//
// This package has implementations of resolvers: ipinfo.io to get
// coordinates of IP address and openweathermap.org to get a weather
// at these coordinates.
//
// A main package itself is an example of how to wire both ip2wlib and
// providers. It reads a config file (HJSON, JSON or TOML), applies
// IP2W_ prefixed environment variables and starts HTTP server.
package main

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/9seconds/ip2w/ip2wlib"
	"github.com/9seconds/ip2w/providers"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

func makeHTTPClient(conf *config) ip2wlib.HTTPClient {
	httpClient := &http.Client{
		Timeout: conf.GetRequestTimeout(),
	}

	return ip2wlib.NewHTTPClient(httpClient,
		"ip2w/"+version,
		conf.RateLimitInterval.Duration(),
		conf.GetRateLimitBurst(),
		conf.CircuitBreakerOpenThreshold,
		conf.CircuitBreakerHalfOpenTimeout.Duration(),
		conf.CircuitBreakerResetFailuresTimeout.Duration())
}

// makePipeline gives each provider its own client: a rate limiter and
// a circuit breaker of one provider must not block another one.
func makePipeline(conf *config, log ip2wlib.Logger) *ip2wlib.Pipeline {
	geoFetcher := ip2wlib.NewFetcher(makeHTTPClient(conf), log)
	weatherFetcher := ip2wlib.NewFetcher(makeHTTPClient(conf), log)

	return ip2wlib.NewPipeline(providers.NewIPInfo(geoFetcher),
		providers.NewOpenWeatherMap(weatherFetcher),
		log)
}

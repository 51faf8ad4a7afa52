package providers_test

import (
	"net/http"
	"time"

	"github.com/9seconds/ip2w/ip2wlib"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/suite"
)

type silentLogger struct{}

func (silentLogger) LookupError(string, string, error)         {}
func (silentLogger) TokenMissing(string)                       {}
func (silentLogger) FetchFailed(string, int, error)            {}
func (silentLogger) RequestServed(string, string, string, int, error) {}

type ProviderTestSuite struct {
	suite.Suite

	fetcher  ip2wlib.Fetcher
	settings *ip2wlib.Settings
}

func (suite *ProviderTestSuite) SetupTest() {
	suite.fetcher = ip2wlib.NewFetcher(
		ip2wlib.NewHTTPClient(&http.Client{}, "test-agent", time.Millisecond, 100, 0, 0, 0),
		silentLogger{})
	suite.settings = &ip2wlib.Settings{
		IPInfoToken:         "ipinfo-token",
		OpenWeatherMapToken: "owm-token",
		RequestTimeout:      time.Second,
		RequestMaxRetry:     3,
	}
}

type MockedProviderTestSuite struct {
	ProviderTestSuite
}

func (suite *MockedProviderTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *MockedProviderTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *MockedProviderTestSuite) TearDownTest() {
	httpmock.Reset()
}

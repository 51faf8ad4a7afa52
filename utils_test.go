package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/9seconds/ip2w/ip2wlib"
	"github.com/jarcoal/httpmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
)

type PipelineWiringTestSuite struct {
	suite.Suite

	ipinfoCalls         int32
	openWeatherMapCalls int32

	conf    *config
	handler http.Handler
}

func (suite *PipelineWiringTestSuite) SetupSuite() {
	httpmock.Activate()
}

func (suite *PipelineWiringTestSuite) TearDownSuite() {
	httpmock.DeactivateAndReset()
}

func (suite *PipelineWiringTestSuite) SetupTest() {
	atomic.StoreInt32(&suite.ipinfoCalls, 0)
	atomic.StoreInt32(&suite.openWeatherMapCalls, 0)

	httpmock.RegisterResponder("GET",
		"https://ipinfo.io/8.8.8.8/geo",
		func(req *http.Request) (*http.Response, error) {
			atomic.AddInt32(&suite.ipinfoCalls, 1)

			return httpmock.NewStringResponse(http.StatusOK, `{"loc": "1,2"}`), nil
		})
	httpmock.RegisterResponder("GET",
		"https://api.openweathermap.org/data/2.5/weather",
		func(req *http.Request) (*http.Response, error) {
			atomic.AddInt32(&suite.openWeatherMapCalls, 1)

			return httpmock.NewStringResponse(http.StatusBadGateway, ""), nil
		})

	suite.conf = &config{
		IPInfoToken:                 "ipinfo",
		OpenWeatherMapToken:         "owm",
		RequestMaxRetry:             2,
		CircuitBreakerOpenThreshold: 1,
	}

	log := makeLogger(io.Discard, zerolog.InfoLevel)

	suite.handler = ip2wlib.NewHTTPHandler(makePipeline(suite.conf, log), suite.conf.Settings(), log)
}

func (suite *PipelineWiringTestSuite) TearDownTest() {
	httpmock.Reset()
}

func (suite *PipelineWiringTestSuite) Request() int {
	resp := httptest.NewRecorder()

	suite.handler.ServeHTTP(resp, httptest.NewRequest("GET", "/ip2w/8.8.8.8", nil))

	return resp.Code
}

func (suite *PipelineWiringTestSuite) TestWeatherBreakerDoesNotBlockGeo() {
	suite.Equal(http.StatusInternalServerError, suite.Request())
	suite.EqualValues(1, atomic.LoadInt32(&suite.ipinfoCalls))
	suite.EqualValues(2, atomic.LoadInt32(&suite.openWeatherMapCalls))

	suite.Equal(http.StatusInternalServerError, suite.Request())
	suite.EqualValues(2, atomic.LoadInt32(&suite.ipinfoCalls))
	suite.EqualValues(2, atomic.LoadInt32(&suite.openWeatherMapCalls))
}

func TestPipelineWiring(t *testing.T) {
	suite.Run(t, &PipelineWiringTestSuite{})
}

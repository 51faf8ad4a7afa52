package ip2wlib_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/9seconds/ip2w/ip2wlib"
	"github.com/mccutchen/go-httpbin/httpbin"
	"github.com/stretchr/testify/suite"
)

type HTTPClientTestSuite struct {
	suite.Suite

	httpbinEndpoint *httptest.Server
	c               ip2wlib.HTTPClient
}

func (suite *HTTPClientTestSuite) SetupSuite() {
	suite.httpbinEndpoint = httptest.NewServer(httpbin.NewHTTPBin().Handler())
}

func (suite *HTTPClientTestSuite) TearDownSuite() {
	suite.httpbinEndpoint.Close()
}

func (suite *HTTPClientTestSuite) SetupTest() {
	suite.c = ip2wlib.NewHTTPClient(suite.httpbinEndpoint.Client(),
		"test",
		100*time.Millisecond,
		1,
		0,
		0,
		0)
}

func (suite *HTTPClientTestSuite) TestRateLimiter() {
	now := time.Now()
	wg := &sync.WaitGroup{}

	wg.Add(10)

	for i := 0; i < 10; i++ {
		go func() {
			defer wg.Done()

			req, _ := http.NewRequest(http.MethodGet, suite.httpbinEndpoint.URL+"/get", nil)
			resp, err := suite.c.Do(req)

			suite.NoError(err)
			suite.Equal(http.StatusOK, resp.StatusCode)
			resp.Body.Close()
		}()
	}

	wg.Wait()

	suite.True(time.Since(now) > 700*time.Millisecond)
	suite.WithinDuration(now, time.Now(), 12*100*time.Millisecond)
}

func (suite *HTTPClientTestSuite) TestNoRateLimit() {
	client := ip2wlib.NewHTTPClient(suite.httpbinEndpoint.Client(), "test", 0, 0, 0, 0, 0)
	now := time.Now()

	for i := 0; i < 10; i++ {
		req, _ := http.NewRequest(http.MethodGet, suite.httpbinEndpoint.URL+"/get", nil)
		resp, err := client.Do(req)

		suite.NoError(err)
		resp.Body.Close()
	}

	suite.WithinDuration(now, time.Now(), 500*time.Millisecond)
}

func (suite *HTTPClientTestSuite) TestUserAgent() {
	req, _ := http.NewRequest(http.MethodGet, suite.httpbinEndpoint.URL+"/user-agent", nil)
	resp, err := suite.c.Do(req)

	suite.NoError(err)

	defer resp.Body.Close()

	body := struct {
		UserAgent string `json:"user-agent"`
	}{}

	suite.NoError(json.NewDecoder(resp.Body).Decode(&body))
	suite.Equal("test", body.UserAgent)
}

func (suite *HTTPClientTestSuite) TestBadStatus() {
	for _, status := range []string{"500", "404", "204"} {
		req, _ := http.NewRequest(http.MethodGet, suite.httpbinEndpoint.URL+"/status/"+status, nil)
		resp, err := suite.c.Do(req)

		if status == "204" {
			suite.NoError(err)
			resp.Body.Close()
		} else {
			suite.Error(err, status)
		}
	}
}

func (suite *HTTPClientTestSuite) TestCannotDial() {
	req, _ := http.NewRequest(http.MethodGet, suite.httpbinEndpoint.URL+"1"+"/status/500", nil)
	_, err := suite.c.Do(req)

	suite.Error(err)
}

func (suite *HTTPClientTestSuite) TestCircuitBreaker() {
	client := ip2wlib.NewHTTPClient(suite.httpbinEndpoint.Client(),
		"test",
		0,
		1,
		2,
		time.Minute,
		time.Minute)

	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest(http.MethodGet, suite.httpbinEndpoint.URL+"/status/500", nil)
		_, err := client.Do(req)

		suite.Error(err)
		suite.False(errors.Is(err, ip2wlib.ErrCircuitBreakerOpened))
	}

	req, _ := http.NewRequest(http.MethodGet, suite.httpbinEndpoint.URL+"/get", nil)
	_, err := client.Do(req)

	suite.ErrorIs(err, ip2wlib.ErrCircuitBreakerOpened)
}

func (suite *HTTPClientTestSuite) TestCircuitBreakerTolerateThreshold() {
	client := ip2wlib.NewHTTPClient(suite.httpbinEndpoint.Client(),
		"test",
		0,
		1,
		2,
		time.Minute,
		time.Minute)

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest(http.MethodGet, suite.httpbinEndpoint.URL+"/status/500", nil)
		_, err := client.Do(req)

		suite.Error(err)
	}

	req, _ := http.NewRequest(http.MethodGet, suite.httpbinEndpoint.URL+"/get", nil)
	resp, err := client.Do(req)

	suite.NoError(err)
	suite.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestHTTPClient(t *testing.T) {
	suite.Run(t, &HTTPClientTestSuite{})
}

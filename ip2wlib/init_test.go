package ip2wlib_test

import (
	"context"

	"github.com/9seconds/ip2w/ip2wlib"
	"github.com/stretchr/testify/mock"
)

type GeoResolverMock struct {
	mock.Mock
}

func (m *GeoResolverMock) Name() string {
	return m.Called().String(0)
}

func (m *GeoResolverMock) Locate(ctx context.Context, ip string, settings *ip2wlib.Settings) (ip2wlib.Coordinates, error) {
	args := m.Called(ctx, ip, settings)

	return args.Get(0).(ip2wlib.Coordinates), args.Error(1)
}

type WeatherResolverMock struct {
	mock.Mock
}

func (m *WeatherResolverMock) Name() string {
	return m.Called().String(0)
}

func (m *WeatherResolverMock) Weather(ctx context.Context,
	coords ip2wlib.Coordinates,
	settings *ip2wlib.Settings) (*ip2wlib.WeatherPayload, error) {
	args := m.Called(ctx, coords, settings)

	payload, _ := args.Get(0).(*ip2wlib.WeatherPayload)

	return payload, args.Error(1)
}

type LoggerMock struct {
	mock.Mock
}

func (m *LoggerMock) LookupError(ip, name string, err error) {
	m.Called(ip, name, err)
}

func (m *LoggerMock) TokenMissing(name string) {
	m.Called(name)
}

func (m *LoggerMock) FetchFailed(url string, attempt int, err error) {
	m.Called(url, attempt, err)
}

func (m *LoggerMock) RequestServed(requestID, clientAddr, ip string, statusCode int, err error) {
	m.Called(requestID, clientAddr, ip, statusCode, err)
}

func (m *LoggerMock) AllowEverything() {
	m.On("LookupError", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("TokenMissing", mock.Anything).Maybe()
	m.On("FetchFailed", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.On("RequestServed", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Maybe()
}

func stringPtr(value string) *string {
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}

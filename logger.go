package main

import (
	"io"
	stdlog "log"
	"os"

	"github.com/9seconds/ip2w/ip2wlib"
	"github.com/rs/zerolog"
)

type logger struct {
	base       zerolog.Logger
	lookupLog  zerolog.Logger
	fetchLog   zerolog.Logger
	requestLog zerolog.Logger
}

func (l *logger) LookupError(ip, name string, err error) {
	l.lookupLog.Error().Str("provider", name).Str("ip", ip).Err(err).Msg("")
}

func (l *logger) TokenMissing(name string) {
	l.lookupLog.Error().Str("provider", name).Msg("Auth token was not found in config")
}

func (l *logger) FetchFailed(url string, attempt int, err error) {
	l.fetchLog.Warn().Str("url", url).Int("attempt", attempt).Err(err).Msg("")
}

func (l *logger) RequestServed(requestID, clientAddr, ip string, statusCode int, err error) {
	event := l.requestLog.Info()

	if err != nil {
		event = l.requestLog.Error().Err(err)
	}

	event.Str("request_id", requestID).Str("client", clientAddr).Str("ip", ip).Int("status", statusCode).Msg("")
}

func newLogger(conf configLogger, debug bool) (*logger, error) {
	level, err := zerolog.ParseLevel(conf.GetLevel())
	if err != nil {
		return nil, err
	}

	if debug {
		level = zerolog.DebugLevel
	}

	var writer io.Writer = os.Stderr

	if conf.GetFormat() == "console" {
		writer = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	return makeLogger(writer, level), nil
}

func makeLogger(writer io.Writer, level zerolog.Level) *logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	base := zerolog.New(writer).Level(level).With().Timestamp().Logger()

	return &logger{
		base:       base,
		lookupLog:  base.With().Str("event_name", "lookup").Logger(),
		fetchLog:   base.With().Str("event_name", "fetch").Logger(),
		requestLog: base.With().Str("event_name", "request").Logger(),
	}
}

func newServerErrorLog(base zerolog.Logger) *stdlog.Logger {
	return stdlog.New(base.With().Str("event_name", "server").Logger(), "", 0)
}

var _ ip2wlib.Logger = &logger{}

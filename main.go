package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/9seconds/ip2w/ip2wlib"
	"github.com/9seconds/ip2w/providers"
	"github.com/joho/godotenv"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

const (
	serverReadTimeout  = 10 * time.Second
	serverWriteTimeout = 2 * time.Minute
	serverIdleTimeout  = time.Minute
	shutdownTimeout    = 10 * time.Second
)

var version = "dev"

var (
	app = kingpin.New(
		"ip2w",
		"Current weather for a location of IPv4 address")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("IP2W_DEBUG").
		Bool()
	listen = app.Flag("listen", "host:port to listen on. Overrides a config value.").
		Short('l').
		String()
	envFiles = app.Flag("env-file", "Load environment variables from this file.").
			ExistingFiles()
	configPath = app.Arg("config-path", "Path to the config.").
			Required().
			ExistingFile()
)

func main() {
	app.Version(version)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if len(*envFiles) > 0 {
		if err := godotenv.Load(*envFiles...); err != nil {
			app.Fatalf("cannot load env files: %v", err)
		}
	}

	conf, err := parseConfig(*configPath)
	if err != nil {
		app.Fatalf("cannot parse config: %v", err)
	}

	if *listen != "" {
		if _, _, err := net.SplitHostPort(*listen); err != nil {
			app.Fatalf("incorrect host:port for listen: %v", err)
		}

		conf.Listen = *listen
	}

	log, err := newLogger(conf.Logger, *debug)
	if err != nil {
		app.Fatalf("cannot configure logger: %v", err)
	}

	if conf.IPInfoToken == "" {
		log.TokenMissing(providers.NameIPInfo)
	}

	if conf.OpenWeatherMapToken == "" {
		log.TokenMissing(providers.NameOpenWeatherMap)
	}

	ctx, cancel := makeRootContext()
	defer cancel()

	if err := serve(ctx, conf, log); err != nil {
		log.base.Fatal().Err(err).Msg("Server has failed")
	}
}

func serve(ctx context.Context, conf *config, log *logger) error {
	server := &http.Server{
		Addr:         conf.GetListen(),
		Handler:      ip2wlib.NewHTTPHandler(makePipeline(conf, log), conf.Settings(), log),
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
		ErrorLog:     newServerErrorLog(log.base),
	}

	shutdownDone := make(chan struct{})

	go func() {
		defer close(shutdownDone)

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.base.Warn().Err(err).Msg("Cannot shutdown server gracefully")
			server.Close()
		}
	}()

	log.base.Info().Str("listen", conf.GetListen()).Str("version", version).Msg("Start server")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-shutdownDone

	log.base.Info().Msg("Server was stopped")

	return nil
}

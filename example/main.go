package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Gurux/gxcommon-go"
	"github.com/Gurux/gxstream-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

var (
	configFile = flag.String("config", "", "YAML config file")
	transport  = flag.String("T", "Serial", "Transport (Serial, TCP)")
	endpoint   = flag.String("S", "", "Serial port name or host:port")
	baudRate   = flag.Int("b", 9600, "Baud rate")
	dataBits   = flag.Int("d", 8, "DataBits (5, 6, 7, 8)")
	parity     = flag.String("p", "None", "Parity (None, Odd, Even, Mark, Space)")
	pollMode   = flag.String("poll", "EveryTick", "Poll mode (EveryTick, OnDataAvailable)")
	tick       = flag.Duration("tick", gxstream.DefaultTick, "Poll interval")
	message    = flag.String("m", "", "Send message")
	t          = flag.String("t", "", "Trace level.")
	lang       = flag.String("lang", "", "Used language.")
	listen     = flag.String("http", "", "Control HTTP address, e.g. :8080")
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)
	flag.Parse()

	cfg := defaultConfig()
	if *configFile != "" {
		if err := loadConfig(*configFile, &cfg); err != nil {
			log.Fatal().Err(err).Msg("error loading config")
		}
	}
	// Flags given on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "T":
			cfg.Transport = *transport
		case "S":
			cfg.Endpoint = *endpoint
		case "b":
			cfg.BaudRate = *baudRate
		case "d":
			cfg.DataBits = *dataBits
		case "p":
			cfg.Parity = *parity
		case "poll":
			cfg.PollMode = *pollMode
		case "tick":
			cfg.Tick = *tick
		case "m":
			cfg.Message = *message
		case "t":
			cfg.Trace = *t
		case "lang":
			cfg.Language = *lang
		case "http":
			cfg.Listen = *listen
		}
	})
	if cfg.Endpoint == "" {
		flag.PrintDefaults()
		return
	}

	settings, err := cfg.settings()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid settings")
	}
	media := gxstream.NewGXStream(settings)
	if cfg.Language != "" {
		tag, err := language.Parse(cfg.Language)
		if err != nil {
			log.Fatal().Err(err).Msg("error parsing language")
		}
		media.Localize(tag)
	}
	if cfg.Trace != "" {
		tl, err := gxcommon.TraceLevelParse(cfg.Trace)
		if err != nil {
			log.Fatal().Err(err).Msg("error parsing trace level")
		}
		if err := media.SetTrace(tl); err != nil {
			log.Fatal().Err(err).Msg("error setting trace level")
		}
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}

	logger := log.With().Str("media", media.GetName()).Logger()
	media.SetOnLineReceived(func(m gxcommon.IGXMedia, line string) {
		logger.Info().Str("line", line).Msg("line received")
	})
	media.SetOnMediaStateChange(func(m gxcommon.IGXMedia, e gxcommon.MediaStateEventArgs) {
		logger.Info().Str("state", e.State().String()).Msg("media state changed")
	})
	media.SetOnError(func(m gxcommon.IGXMedia, err error) {
		logger.Error().Err(err).Msg("media error")
	})
	media.SetOnTrace(func(m gxcommon.IGXMedia, e gxcommon.TraceEventArgs) {
		logger.Debug().Msg(e.String())
	})

	if err := media.Open(); err != nil {
		if settings.Type == gxstream.TransportTypeSerial {
			if ports, perr := gxstream.GetPortNames(); perr == nil {
				logger.Info().Str("ports", strings.Join(ports, ",")).Msg("available serial ports")
			}
		}
		log.Fatal().Err(err).Msg("failed to open media")
	}
	defer func() {
		if err := media.Close(); err != nil {
			logger.Error().Err(err).Msg("close failed")
		}
	}()

	driver := gxstream.NewDriver(media, cfg.Tick)
	eg, ctx := errgroup.WithContext(context.Background())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	eg.Go(func() error {
		select {
		case <-sigChan:
			logger.Info().Msg("stopping")
		case <-ctx.Done():
		}
		cancel()
		return nil
	})

	eg.Go(func() error {
		return driver.Run(ctx)
	})

	if cfg.Listen != "" {
		srv := newControlServer(cfg.Listen, driver, logger)
		eg.Go(func() error {
			return srv.Run(ctx)
		})
	}

	if cfg.Message != "" {
		eg.Go(func() error {
			sendCtx, done := context.WithTimeout(ctx, 5*time.Second)
			defer done()
			err := driver.Do(sendCtx, func(m *gxstream.GXStream) error {
				return m.WriteLine(cfg.Message)
			})
			if err != nil {
				logger.Error().Err(err).Msg("failed to send message")
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("exited program")
	}
}

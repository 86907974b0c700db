package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"git.lost.host/meutraa/keyfall/internal/config"
)

func main() {
	cfg, err := config.Parse(os.Args[1:])
	if nil != err {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := newLogger(cfg.LogLevel)
	if err := run(cfg, log); nil != err {
		log.Fatal().Err(err).Msg("keyfall")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if nil != err {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

func run(cfg *config.Config, log zerolog.Logger) error {
	p := &Program{}
	if err := p.Init(cfg, log); nil != err {
		return err
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := p.Run(ctx); nil != err {
		return err
	}
	return p.Report(os.Stdout)
}

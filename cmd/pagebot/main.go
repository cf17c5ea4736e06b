// Copyright 2024-2026 Aiku AI

// Command pagebot is a chat bot whose commands render long output as
// interactive paginated documents: a single message per command, navigated
// with reaction buttons. It speaks Mattermost or Matrix depending on
// configuration.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aiku/pagebot/pkg/bot"
	"github.com/aiku/pagebot/pkg/platform/matrix"
	"github.com/aiku/pagebot/pkg/platform/mattermost"
)

// These are filled at build time with -ldflags.
var (
	Tag       = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("pagebot %s (%s, built %s)\n", Tag, Commit, BuildTime)
		return
	}

	cfg, err := bot.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagebot: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pagebot: invalid log level %q\n", cfg.LogLevel)
		os.Exit(1)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli}).
		Level(level).
		With().Timestamp().Logger()

	session, err := newSession(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create session")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bot.New(cfg, session, log)
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Bot exited")
	}
}

func newSession(cfg *bot.Config, log zerolog.Logger) (bot.Session, error) {
	switch cfg.Platform {
	case bot.PlatformMattermost:
		return mattermost.New(cfg.Mattermost.ServerURL, cfg.Mattermost.Token, log), nil
	case bot.PlatformMatrix:
		return matrix.New(cfg.Matrix.HomeserverURL, cfg.Matrix.UserID, cfg.Matrix.AccessToken, log)
	default:
		return nil, fmt.Errorf("unknown platform %q", cfg.Platform)
	}
}

// Copyright 2024-2026 Aiku AI

package bot

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aiku/pagebot/pkg/pagination"
)

// shutdownGrace bounds how long navigator cleanup may run on shutdown.
const shutdownGrace = 10 * time.Second

// Bot dispatches chat commands to cogs and routes reaction events into the
// pagination registry.
type Bot struct {
	cfg      *Config
	session  Session
	log      zerolog.Logger
	Registry *pagination.Registry

	cogs     []Cog
	commands map[string]*Command
}

// New assembles a bot from a validated config and a connected-or-not
// session. Cogs from the static registry are constructed immediately.
func New(cfg *Config, session Session, log zerolog.Logger) *Bot {
	b := &Bot{
		cfg:      cfg,
		session:  session,
		log:      log.With().Str("component", "bot").Logger(),
		Registry: pagination.NewRegistry(log),
		commands: make(map[string]*Command),
	}
	for _, construct := range cogConstructors {
		cog := construct(b)
		b.cogs = append(b.cogs, cog)
		for _, cmd := range cog.Commands() {
			c := cmd
			b.commands[c.Name] = &c
			for _, alias := range c.Aliases {
				b.commands[alias] = &c
			}
		}
	}
	return b
}

// Cogs returns the constructed cogs in registration order.
func (b *Bot) Cogs() []Cog {
	return b.cogs
}

// Run connects the session and processes events until the context is
// cancelled, then kills every live navigator and closes the session.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Connect(ctx); err != nil {
		return err
	}
	b.log.Info().Str("platform", b.cfg.Platform).Msg("Bot connected")

	for {
		select {
		case <-ctx.Done():
			b.shutdown()
			return ctx.Err()
		case evt, ok := <-b.session.Events():
			if !ok {
				b.shutdown()
				return nil
			}
			b.handleEvent(ctx, evt)
		}
	}
}

func (b *Bot) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	b.Registry.Shutdown(ctx)
	b.session.Close()
	b.log.Info().Msg("Bot stopped")
}

func (b *Bot) handleEvent(ctx context.Context, evt Event) {
	switch evt.Type {
	case EventMessage:
		b.handleMessage(ctx, evt)
	case EventReactionAdded:
		b.Registry.HandleReaction(evt.MessageID, evt.UserID, evt.Trigger)
	}
}

func (b *Bot) handleMessage(ctx context.Context, evt Event) {
	if !strings.HasPrefix(evt.Text, b.cfg.CommandPrefix) {
		return
	}
	fields := strings.Fields(strings.TrimPrefix(evt.Text, b.cfg.CommandPrefix))
	if len(fields) == 0 {
		return
	}
	name := strings.ToLower(fields[0])
	cmd, ok := b.commands[name]
	if !ok {
		return
	}

	inv := &Invocation{
		Bot:       b,
		ChannelID: evt.ChannelID,
		UserID:    evt.UserID,
		Command:   name,
		Args:      fields[1:],
	}

	log := b.log.With().
		Str("command", name).
		Str("channel_id", evt.ChannelID).
		Str("user_id", evt.UserID).
		Logger()
	log.Debug().Msg("Dispatching command")

	// Commands run concurrently so a slow handler cannot stall event
	// delivery; each navigator still serializes its own interactions.
	go func() {
		if err := cmd.Run(ctx, inv); err != nil {
			log.Error().Err(err).Msg("Command failed")
		}
	}()
}

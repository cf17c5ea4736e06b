// Copyright 2024-2026 Aiku AI

package bot

import (
	"context"
	"fmt"

	"github.com/aiku/pagebot/pkg/pagination"
)

// Cog is an independent group of commands. Cogs are constructed once at
// startup from the static registry below; there is no runtime discovery.
type Cog interface {
	Name() string
	Commands() []Command
}

// Command is one invocable bot command.
type Command struct {
	Name    string
	Aliases []string
	Help    string
	Run     func(ctx context.Context, inv *Invocation) error
}

// cogConstructors is the static cog registry. Adding a cog means adding its
// constructor here.
var cogConstructors = []func(*Bot) Cog{
	newCoreCog,
	newDemoCog,
}

// Invocation carries everything a command handler needs about one command
// message.
type Invocation struct {
	Bot       *Bot
	ChannelID string
	UserID    string
	Command   string
	Args      []string
}

// Reply posts a plain text message to the invoking channel.
func (inv *Invocation) Reply(ctx context.Context, text string) error {
	_, err := inv.Bot.session.PostMessage(ctx, inv.ChannelID, pagination.Page{Text: text})
	if err != nil {
		return fmt.Errorf("failed to reply: %w", err)
	}
	return nil
}

// Pagination builds the pagination context for this invocation, wiring the
// session, the registry and the invoker/owner identities.
func (inv *Invocation) Pagination() pagination.Context {
	return pagination.Context{
		Client:     inv.Bot.session,
		Registry:   inv.Bot.Registry,
		Log:        inv.Bot.log,
		ChannelID:  inv.ChannelID,
		InvokerID:  inv.UserID,
		BotOwnerID: inv.Bot.cfg.OwnerID,
	}
}

// Copyright 2024-2026 Aiku AI

package bot

import (
	"context"
	"fmt"
	"sort"

	"github.com/aiku/pagebot/pkg/pagination"
)

// coreCog provides the bot's built-in commands.
type coreCog struct {
	bot *Bot
}

func newCoreCog(b *Bot) Cog {
	return &coreCog{bot: b}
}

func (c *coreCog) Name() string { return "core" }

func (c *coreCog) Commands() []Command {
	return []Command{
		{
			Name: "ping",
			Help: "Check that the bot is alive.",
			Run:  c.ping,
		},
		{
			Name:    "help",
			Aliases: []string{"commands"},
			Help:    "Show all commands, one cog per page.",
			Run:     c.help,
		},
	}
}

func (c *coreCog) ping(ctx context.Context, inv *Invocation) error {
	return inv.Reply(ctx, "Pong!")
}

// help renders the command list through the string factory, one cog per
// page, so the help surface itself exercises the navigator.
func (c *coreCog) help(ctx context.Context, inv *Invocation) error {
	factory, err := newHelpFactory(c.bot)
	if err != nil {
		return err
	}
	_, err = factory.Start(ctx, inv.Pagination(), pagination.WithTimeout(c.bot.cfg.Navigator.Timeout()))
	if err != nil {
		return fmt.Errorf("failed to start help navigator: %w", err)
	}
	return nil
}

func newHelpFactory(b *Bot) (*pagination.StringFactory, error) {
	f, err := pagination.NewStringFactory(pagination.WithMaxPageSize(b.cfg.Navigator.MaxPageSize))
	if err != nil {
		return nil, err
	}
	for i, cog := range b.Cogs() {
		if i > 0 {
			f.AddPageBreak()
		}
		f.AddLine(fmt.Sprintf("[%s]", cog.Name()))
		f.AddLine("")
		cmds := cog.Commands()
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
		for _, cmd := range cmds {
			f.AddLine(fmt.Sprintf("%s%-12s %s", b.cfg.CommandPrefix, cmd.Name, cmd.Help))
		}
	}
	return f, nil
}

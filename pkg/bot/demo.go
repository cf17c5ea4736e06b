// Copyright 2024-2026 Aiku AI

package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aiku/pagebot/pkg/pagination"
)

// demoCog exposes commands that render arbitrary-length output through the
// two page factories. It stands in for the command handlers that normally
// consume the engine's output contract.
type demoCog struct {
	bot *Bot
}

func newDemoCog(b *Bot) Cog {
	return &demoCog{bot: b}
}

func (d *demoCog) Name() string { return "demo" }

func (d *demoCog) Commands() []Command {
	return []Command{
		{
			Name: "pages",
			Help: "Render N numbered lines as a navigable fenced document.",
			Run:  d.pages,
		},
		{
			Name: "embedpages",
			Help: "Render N numbered lines as navigable embeds.",
			Run:  d.embedPages,
		},
	}
}

func (d *demoCog) lineCount(inv *Invocation) (int, error) {
	if len(inv.Args) == 0 {
		return 100, nil
	}
	n, err := strconv.Atoi(inv.Args[0])
	if err != nil || n < 1 || n > 10000 {
		return 0, fmt.Errorf("line count must be a number between 1 and 10000")
	}
	return n, nil
}

func (d *demoCog) pages(ctx context.Context, inv *Invocation) error {
	n, err := d.lineCount(inv)
	if err != nil {
		return inv.Reply(ctx, err.Error())
	}

	f, err := pagination.NewStringFactory(pagination.WithMaxPageSize(d.bot.cfg.Navigator.MaxPageSize))
	if err != nil {
		return err
	}
	for i := 1; i <= n; i++ {
		f.AddLine(fmt.Sprintf("line %d", i))
	}
	_, err = f.Start(ctx, inv.Pagination(), pagination.WithTimeout(d.bot.cfg.Navigator.Timeout()))
	return err
}

func (d *demoCog) embedPages(ctx context.Context, inv *Invocation) error {
	n, err := d.lineCount(inv)
	if err != nil {
		return inv.Reply(ctx, err.Error())
	}

	f, err := pagination.NewEmbedFactory(func(pageText string, _ int) pagination.Embed {
		return pagination.Embed{
			Title:       "Demo pages",
			Description: pageText,
		}
	})
	if err != nil {
		return err
	}
	for i := 1; i <= n; i++ {
		f.AddLine(fmt.Sprintf("line %d", i))
	}
	_, err = f.Start(ctx, inv.Pagination(), pagination.WithTimeout(d.bot.cfg.Navigator.Timeout()))
	return err
}

// Copyright 2024-2026 Aiku AI

package pagination

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// DefaultEmbedPageSize is the per-page character budget used by
	// EmbedFactory, sized for an embed description body rather than a whole
	// message.
	DefaultEmbedPageSize = 2048

	defaultPrefix = "```\n"
	defaultSuffix = "\n```"
)

// Context carries the invocation-scoped collaborators a factory needs to
// build a Navigator: the platform client, the process-wide registry, the
// destination channel and the identities used for permission checks.
type Context struct {
	Client    Client
	Registry  *Registry
	Log       zerolog.Logger
	ChannelID string
	// InvokerID is the user who invoked the command; by default only this
	// user and BotOwnerID may drive the navigator.
	InvokerID string
	// BotOwnerID optionally grants a bot administrator control over every
	// navigator. May be empty.
	BotOwnerID string
}

func (c Context) validate() error {
	switch {
	case c.Client == nil:
		return fmt.Errorf("pagination context: nil client")
	case c.Registry == nil:
		return fmt.Errorf("pagination context: nil registry")
	case c.ChannelID == "":
		return fmt.Errorf("pagination context: empty channel ID")
	case c.InvokerID == "":
		return fmt.Errorf("pagination context: empty invoker ID")
	}
	return nil
}

// Substitution rewrites raw page text before it is wrapped, e.g. to escape
// characters that would terminate a code fence.
type Substitution func(string) string

// EscapeFences is the default substitution for fenced output: it breaks up
// any triple backtick inside the content so it cannot close the fence early.
func EscapeFences(s string) string {
	return strings.ReplaceAll(s, "```", "`\u200b`\u200b`")
}

// StringFactory accumulates lines through its embedded Paginator and renders
// each sealed page as plain text wrapped in a fixed prefix and suffix
// (a code fence by default).
type StringFactory struct {
	*Paginator
	prefix string
	suffix string
	subs   []Substitution
}

// StringOption configures a StringFactory.
type StringOption func(*StringFactory)

// WithMaxPageSize overrides the whole-message size limit.
func WithMaxPageSize(n int) StringOption {
	return func(f *StringFactory) { f.maxSize = n }
}

// WithWrapping replaces the default code fence wrapping. Passing two empty
// strings disables wrapping entirely.
func WithWrapping(prefix, suffix string) StringOption {
	return func(f *StringFactory) {
		f.prefix = prefix
		f.suffix = suffix
	}
}

// WithSubstitutions replaces the substitution list applied to raw page text
// before wrapping. The default list contains only EscapeFences.
func WithSubstitutions(subs ...Substitution) StringOption {
	return func(f *StringFactory) { f.subs = subs }
}

// NewStringFactory creates a string page factory. The embedded Paginator
// reserves room for the wrapping, so every rendered page stays within the
// configured size limit while truncation is enabled.
func NewStringFactory(opts ...StringOption) (*StringFactory, error) {
	p, err := NewPaginator(0)
	if err != nil {
		return nil, err
	}
	f := &StringFactory{
		Paginator: p,
		prefix:    defaultPrefix,
		suffix:    defaultSuffix,
		subs:      []Substitution{EscapeFences},
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := p.setReserve(len(f.prefix) + len(f.suffix)); err != nil {
		return nil, err
	}
	return f, nil
}

// RenderPages finalizes the buffer and renders each page with substitutions
// applied and the wrapping attached.
func (f *StringFactory) RenderPages() []Page {
	raw := f.Pages()
	pages := make([]Page, len(raw))
	for i, text := range raw {
		for _, sub := range f.subs {
			text = sub(text)
		}
		pages[i] = Page{Text: f.prefix + text + f.suffix}
	}
	return pages
}

// Build constructs a Navigator over the rendered pages without posting
// anything.
func (f *StringFactory) Build(bctx Context, opts ...Option) (*Navigator, error) {
	return newNavigator(bctx, f.RenderPages(), opts...)
}

// Start is Build followed immediately by Navigator.Start.
func (f *StringFactory) Start(ctx context.Context, bctx Context, opts ...Option) (*Navigator, error) {
	n, err := f.Build(bctx, opts...)
	if err != nil {
		return nil, err
	}
	if err := n.Start(ctx); err != nil {
		return nil, err
	}
	return n, nil
}

// EmbedBuilder produces the embed for one page. pageText is the sealed raw
// page content and pageIndex is zero-based.
type EmbedBuilder func(pageText string, pageIndex int) Embed

// EmbedFactory accumulates lines through its embedded Paginator and hands
// each sealed page to a caller-supplied EmbedBuilder.
type EmbedFactory struct {
	*Paginator
	build EmbedBuilder
	// providesNumbering suppresses the automatic "Page X of N" footer when
	// the builder already embeds its own numbering.
	providesNumbering bool
}

// EmbedOption configures an EmbedFactory.
type EmbedOption func(*EmbedFactory)

// WithEmbedPageSize overrides the per-page character budget.
func WithEmbedPageSize(n int) EmbedOption {
	return func(f *EmbedFactory) { f.maxSize = n }
}

// ProvidesNumbering declares that the EmbedBuilder emits its own page
// numbering, disabling the automatic footer.
func ProvidesNumbering() EmbedOption {
	return func(f *EmbedFactory) { f.providesNumbering = true }
}

// NewEmbedFactory creates an embed page factory around the given builder.
func NewEmbedFactory(build EmbedBuilder, opts ...EmbedOption) (*EmbedFactory, error) {
	if build == nil {
		return nil, fmt.Errorf("embed factory: nil builder")
	}
	p, err := NewPaginator(DefaultEmbedPageSize)
	if err != nil {
		return nil, err
	}
	f := &EmbedFactory{Paginator: p, build: build}
	for _, opt := range opts {
		opt(f)
	}
	if err := p.setReserve(0); err != nil {
		return nil, err
	}
	return f, nil
}

// RenderPages finalizes the buffer and renders each page through the
// EmbedBuilder, injecting a "Page X of N" footer for multi-page sequences
// unless the builder provides its own numbering.
func (f *EmbedFactory) RenderPages() []Page {
	raw := f.Pages()
	pages := make([]Page, len(raw))
	for i, text := range raw {
		embed := f.build(text, i)
		if !f.providesNumbering && embed.Footer == "" && len(raw) > 1 {
			embed.Footer = fmt.Sprintf("Page %d of %d", i+1, len(raw))
		}
		e := embed
		pages[i] = Page{Embed: &e}
	}
	return pages
}

// Build constructs a Navigator over the rendered embed pages.
func (f *EmbedFactory) Build(bctx Context, opts ...Option) (*Navigator, error) {
	return newNavigator(bctx, f.RenderPages(), opts...)
}

// Start is Build followed immediately by Navigator.Start.
func (f *EmbedFactory) Start(ctx context.Context, bctx Context, opts ...Option) (*Navigator, error) {
	n, err := f.Build(bctx, opts...)
	if err != nil {
		return nil, err
	}
	if err := n.Start(ctx); err != nil {
		return nil, err
	}
	return n, nil
}

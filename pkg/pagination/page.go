// Copyright 2024-2026 Aiku AI

package pagination

// Page is one pre-rendered unit of content ready to display as a single chat
// message. Exactly one of Text or Embed is populated. Pages are immutable
// once produced by a factory; the Navigator that holds them owns them.
type Page struct {
	Text  string
	Embed *Embed
}

// IsEmbed reports whether the page carries rich embed content rather than
// plain text.
func (p Page) IsEmbed() bool {
	return p.Embed != nil
}

// Embed is a platform-neutral rich content record. Platform adapters render
// it into whatever the target platform supports (message attachments on
// Mattermost, formatted messages on Matrix).
type Embed struct {
	Title       string
	Description string
	URL         string
	Color       string
	Fields      []EmbedField
	ImageURL    string
	Footer      string
}

// EmbedField is a single name/value pair inside an Embed.
type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// Copyright 2024-2026 Aiku AI

package bot

import (
	"context"

	"github.com/aiku/pagebot/pkg/pagination"
)

// EventType classifies inbound platform events the bot cares about.
type EventType int

const (
	// EventMessage is a user-authored chat message.
	EventMessage EventType = iota
	// EventReactionAdded is a reaction placed on some message.
	EventReactionAdded
)

// Event is a platform-neutral inbound event. Text is set for messages,
// Trigger for reactions.
type Event struct {
	Type      EventType
	ChannelID string
	MessageID string
	UserID    string
	Text      string
	Trigger   string
}

// Session is a live connection to one chat platform. It extends the
// pagination boundary with connection management and the inbound event
// stream the bot dispatches from.
//
// Implementations must not deliver the bot's own messages or reactions as
// events (echo prevention happens in the adapter, closest to the platform).
type Session interface {
	pagination.Client

	// Connect authenticates and starts delivering events. It returns once
	// the connection is established; event delivery happens in the
	// background until Close.
	Connect(ctx context.Context) error
	// Events returns the inbound event stream. The channel is closed when
	// the session shuts down.
	Events() <-chan Event
	// BotUserID returns the authenticated bot user's platform ID. Only
	// valid after Connect.
	BotUserID() string
	Close()
}

// Copyright 2024-2026 Aiku AI

package pagination

import "context"

// MessageRef identifies a posted message on the chat platform.
type MessageRef struct {
	ChannelID string
	MessageID string
}

// Client is the chat-platform boundary the pagination engine drives. Platform
// adapters implement it; the engine never talks to a platform SDK directly.
//
// All calls are best-effort from the engine's point of view: runtime failures
// during an active session are logged and degrade toward termination rather
// than propagating. The one exception is the initial post, whose error is
// surfaced to the caller of Start.
//
// Implementations must translate their platform's "message no longer exists"
// error into ErrNotFound so the Navigator can treat an edit of a vanished
// message as an implicit kill.
type Client interface {
	PostMessage(ctx context.Context, channelID string, page Page) (MessageRef, error)
	EditMessage(ctx context.Context, ref MessageRef, page Page) error
	DeleteMessage(ctx context.Context, ref MessageRef) error

	// AddReaction adds the bot's own reaction, used to offer a button trigger.
	AddReaction(ctx context.Context, ref MessageRef, trigger string) error
	// RemoveReaction removes the given user's reaction so the trigger can be
	// pressed again.
	RemoveReaction(ctx context.Context, ref MessageRef, trigger, userID string) error
	// ClearReactions removes every reaction from the message.
	ClearReactions(ctx context.Context, ref MessageRef) error
}

// Copyright 2024-2026 Aiku AI

package matrix

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mau.fi/util/exsync"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/format"
	"maunium.net/go/mautrix/id"

	"github.com/aiku/pagebot/pkg/bot"
	"github.com/aiku/pagebot/pkg/pagination"
)

// reactionKey identifies one user's reaction with one key on one message.
type reactionKey struct {
	MessageID string
	UserID    string
	Key       string
}

// Client is a Matrix session built on mautrix. It implements bot.Session.
//
// Matrix models reactions as events, so removing or clearing them means
// redacting the right reaction events. The client keeps an index of every
// reaction event it has seen or sent, keyed by (message, user, key), and
// redacts through it.
type Client struct {
	mx     *mautrix.Client
	userID id.UserID

	// reactions maps observed reactions to their event IDs for redaction.
	reactions *exsync.Map[reactionKey, id.EventID]

	events    chan bot.Event
	startTime int64
	stopOnce  sync.Once
	cancel    context.CancelFunc
	log       zerolog.Logger
}

var _ bot.Session = (*Client)(nil)

// New creates a disconnected Matrix session.
func New(homeserverURL, userID, accessToken string, log zerolog.Logger) (*Client, error) {
	mx, err := mautrix.NewClient(homeserverURL, id.UserID(userID), accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Matrix client: %w", err)
	}
	return &Client{
		mx:        mx,
		userID:    id.UserID(userID),
		reactions: exsync.NewMap[reactionKey, id.EventID](),
		events:    make(chan bot.Event, 64),
		log:       log.With().Str("component", "matrix_client").Logger(),
	}, nil
}

// Connect verifies the access token and starts the sync loop.
func (c *Client) Connect(ctx context.Context) error {
	whoami, err := c.mx.Whoami(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify Matrix session: %w", err)
	}
	c.userID = whoami.UserID
	c.mx.UserID = whoami.UserID
	c.startTime = time.Now().UnixMilli()
	c.log.Info().Str("user_id", whoami.UserID.String()).Msg("Authenticated")

	syncer := c.mx.Syncer.(*mautrix.DefaultSyncer)
	syncer.OnEventType(event.EventMessage, c.handleMessage)
	syncer.OnEventType(event.EventReaction, c.handleReaction)

	syncCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	go func() {
		if err := c.mx.SyncWithContext(syncCtx); err != nil && !errors.Is(err, context.Canceled) {
			c.log.Error().Err(err).Msg("Sync loop ended")
		}
		close(c.events)
	}()
	return nil
}

// Events returns the inbound event stream.
func (c *Client) Events() <-chan bot.Event {
	return c.events
}

// BotUserID returns the authenticated bot user's Matrix ID.
func (c *Client) BotUserID() string {
	return c.userID.String()
}

// Close stops the sync loop.
func (c *Client) Close() {
	c.stopOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
		}
	})
}

func (c *Client) handleMessage(_ context.Context, evt *event.Event) {
	// Skip history replayed by the initial sync and our own messages.
	if evt.Timestamp < c.startTime || evt.Sender == c.userID {
		return
	}
	c.deliver(bot.Event{
		Type:      bot.EventMessage,
		ChannelID: evt.RoomID.String(),
		MessageID: evt.ID.String(),
		UserID:    evt.Sender.String(),
		Text:      evt.Content.AsMessage().Body,
	})
}

func (c *Client) handleReaction(_ context.Context, evt *event.Event) {
	content := evt.Content.AsReaction()
	if content == nil {
		return
	}
	rel := content.RelatesTo
	if rel.Type != event.RelAnnotation || rel.EventID == "" {
		return
	}

	// Index every reaction, including our own button affordances, so they
	// can be redacted later.
	c.reactions.Set(reactionKey{
		MessageID: rel.EventID.String(),
		UserID:    evt.Sender.String(),
		Key:       rel.Key,
	}, evt.ID)

	if evt.Timestamp < c.startTime || evt.Sender == c.userID {
		return
	}
	c.deliver(bot.Event{
		Type:      bot.EventReactionAdded,
		ChannelID: evt.RoomID.String(),
		MessageID: rel.EventID.String(),
		UserID:    evt.Sender.String(),
		Trigger:   rel.Key,
	})
}

func (c *Client) deliver(evt bot.Event) {
	select {
	case c.events <- evt:
	default:
		c.log.Warn().Int("event_type", int(evt.Type)).Msg("Event queue full, dropping event")
	}
}

// PostMessage implements pagination.Client.
func (c *Client) PostMessage(ctx context.Context, channelID string, page pagination.Page) (pagination.MessageRef, error) {
	content := renderPage(page)
	resp, err := c.mx.SendMessageEvent(ctx, id.RoomID(channelID), event.EventMessage, &content)
	if err != nil {
		return pagination.MessageRef{}, fmt.Errorf("failed to send message: %w", translateErr(err))
	}
	return pagination.MessageRef{ChannelID: channelID, MessageID: resp.EventID.String()}, nil
}

// EditMessage implements pagination.Client.
func (c *Client) EditMessage(ctx context.Context, ref pagination.MessageRef, page pagination.Page) error {
	content := renderPage(page)
	content.SetEdit(id.EventID(ref.MessageID))
	if _, err := c.mx.SendMessageEvent(ctx, id.RoomID(ref.ChannelID), event.EventMessage, &content); err != nil {
		return fmt.Errorf("failed to edit message: %w", translateErr(err))
	}
	return nil
}

// DeleteMessage implements pagination.Client.
func (c *Client) DeleteMessage(ctx context.Context, ref pagination.MessageRef) error {
	if _, err := c.mx.RedactEvent(ctx, id.RoomID(ref.ChannelID), id.EventID(ref.MessageID)); err != nil {
		return fmt.Errorf("failed to redact message: %w", translateErr(err))
	}
	return nil
}

// AddReaction implements pagination.Client.
func (c *Client) AddReaction(ctx context.Context, ref pagination.MessageRef, trigger string) error {
	resp, err := c.mx.SendMessageEvent(ctx, id.RoomID(ref.ChannelID), event.EventReaction, &event.ReactionEventContent{
		RelatesTo: event.RelatesTo{
			Type:    event.RelAnnotation,
			EventID: id.EventID(ref.MessageID),
			Key:     trigger,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send reaction: %w", translateErr(err))
	}
	c.reactions.Set(reactionKey{
		MessageID: ref.MessageID,
		UserID:    c.userID.String(),
		Key:       trigger,
	}, resp.EventID)
	return nil
}

// RemoveReaction implements pagination.Client. Without an indexed reaction
// event there is nothing to redact, which is not an error: the reaction may
// already be gone.
func (c *Client) RemoveReaction(ctx context.Context, ref pagination.MessageRef, trigger, userID string) error {
	evtID, ok := c.reactions.Pop(reactionKey{
		MessageID: ref.MessageID,
		UserID:    userID,
		Key:       trigger,
	})
	if !ok {
		return nil
	}
	if _, err := c.mx.RedactEvent(ctx, id.RoomID(ref.ChannelID), evtID); err != nil {
		return fmt.Errorf("failed to redact reaction: %w", translateErr(err))
	}
	return nil
}

// ClearReactions implements pagination.Client by redacting every indexed
// reaction on the message, best-effort.
func (c *Client) ClearReactions(ctx context.Context, ref pagination.MessageRef) error {
	for key, evtID := range c.reactions.CopyData() {
		if key.MessageID != ref.MessageID {
			continue
		}
		c.reactions.Delete(key)
		if _, err := c.mx.RedactEvent(ctx, id.RoomID(ref.ChannelID), evtID); err != nil {
			c.log.Debug().Err(err).Str("key", key.Key).Msg("Failed to redact reaction during clear")
		}
	}
	return nil
}

// renderPage converts a page into Matrix message content. Embeds have no
// native Matrix equivalent and are rendered as markdown.
func renderPage(page pagination.Page) event.MessageEventContent {
	if !page.IsEmbed() {
		return format.RenderMarkdown(page.Text, true, false)
	}

	e := page.Embed
	var md string
	if e.Title != "" {
		if e.URL != "" {
			md += fmt.Sprintf("### [%s](%s)\n\n", e.Title, e.URL)
		} else {
			md += fmt.Sprintf("### %s\n\n", e.Title)
		}
	}
	if e.Description != "" {
		md += e.Description + "\n"
	}
	for _, f := range e.Fields {
		md += fmt.Sprintf("\n**%s**\n%s\n", f.Name, f.Value)
	}
	if e.ImageURL != "" {
		md += fmt.Sprintf("\n![image](%s)\n", e.ImageURL)
	}
	if e.Footer != "" {
		md += fmt.Sprintf("\n*%s*", e.Footer)
	}
	return format.RenderMarkdown(md, true, false)
}

// translateErr maps Matrix API errors onto the pagination error vocabulary.
func translateErr(err error) error {
	if errors.Is(err, mautrix.MNotFound) {
		return fmt.Errorf("%w: %v", pagination.ErrNotFound, err)
	}
	return err
}

// Copyright 2024-2026 Aiku AI

package mattermost

import (
	"encoding/json"
	"fmt"

	"github.com/mattermost/mattermost/server/public/model"

	"github.com/aiku/pagebot/pkg/bot"
)

// handleEvent dispatches a Mattermost WebSocket event to the appropriate
// handler.
func (c *Client) handleEvent(evt *model.WebSocketEvent) {
	switch evt.EventType() {
	case model.WebsocketEventPosted:
		c.handlePosted(evt)
	case model.WebsocketEventReactionAdded:
		c.handleReactionAdded(evt)
	default:
		c.log.Trace().Str("event_type", string(evt.EventType())).Msg("Unhandled event type")
	}
}

// parsePostedEvent extracts and validates a post from a WebSocket event.
// Returns (nil, nil) to skip silently, (nil, err) to log an error, or
// (post, nil) to proceed.
func (c *Client) parsePostedEvent(evt *model.WebSocketEvent) (*model.Post, error) {
	postJSON, ok := evt.GetData()["post"].(string)
	if !ok {
		return nil, fmt.Errorf("posted event missing post data")
	}

	var post model.Post
	if err := json.Unmarshal([]byte(postJSON), &post); err != nil {
		return nil, fmt.Errorf("failed to unmarshal post: %w", err)
	}

	// Echo prevention: skip own posts.
	if post.UserId == c.userID {
		return nil, nil
	}

	// Skip non-default post types (system messages).
	if post.Type != "" && post.Type != model.PostTypeDefault {
		return nil, nil
	}

	return &post, nil
}

// parseReactionEvent extracts and validates a reaction from a WebSocket
// event. Returns (nil, nil) to skip, (nil, err) for errors, or
// (reaction, nil) to proceed.
func (c *Client) parseReactionEvent(evt *model.WebSocketEvent) (*model.Reaction, error) {
	reactionJSON, ok := evt.GetData()["reaction"].(string)
	if !ok {
		return nil, nil
	}

	var reaction model.Reaction
	if err := json.Unmarshal([]byte(reactionJSON), &reaction); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reaction: %w", err)
	}

	// Echo prevention: skip own reactions.
	if reaction.UserId == c.userID {
		return nil, nil
	}

	return &reaction, nil
}

func (c *Client) handlePosted(evt *model.WebSocketEvent) {
	post, err := c.parsePostedEvent(evt)
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to parse posted event")
		return
	}
	if post == nil {
		return
	}

	c.log.Debug().
		Str("post_id", post.Id).
		Str("channel_id", post.ChannelId).
		Str("user_id", post.UserId).
		Msg("Received message")

	c.deliver(bot.Event{
		Type:      bot.EventMessage,
		ChannelID: post.ChannelId,
		MessageID: post.Id,
		UserID:    post.UserId,
		Text:      post.Message,
	})
}

func (c *Client) handleReactionAdded(evt *model.WebSocketEvent) {
	reaction, err := c.parseReactionEvent(evt)
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to parse reaction event")
		return
	}
	if reaction == nil {
		return
	}

	c.deliver(bot.Event{
		Type:      bot.EventReactionAdded,
		ChannelID: evt.GetBroadcast().ChannelId,
		MessageID: reaction.PostId,
		UserID:    reaction.UserId,
		Trigger:   triggerForName(reaction.EmojiName),
	})
}

// deliver hands an event to the bot without ever blocking the WebSocket
// reader.
func (c *Client) deliver(evt bot.Event) {
	select {
	case c.events <- evt:
	default:
		c.log.Warn().Int("event_type", int(evt.Type)).Msg("Event queue full, dropping event")
	}
}

// Copyright 2024-2026 Aiku AI

package mattermost

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/rs/zerolog"

	"github.com/aiku/pagebot/pkg/bot"
	"github.com/aiku/pagebot/pkg/pagination"
)

// Client is a Mattermost session: a REST client for outbound calls and a
// WebSocket connection for inbound events. It implements bot.Session.
type Client struct {
	serverURL string
	token     string

	api    *model.Client4
	ws     *model.WebSocketClient
	userID string

	events   chan bot.Event
	stopOnce sync.Once
	stopChan chan struct{}
	log      zerolog.Logger
}

var _ bot.Session = (*Client)(nil)

// New creates a disconnected Mattermost session.
func New(serverURL, token string, log zerolog.Logger) *Client {
	return &Client{
		serverURL: serverURL,
		token:     token,
		events:    make(chan bot.Event, 64),
		stopChan:  make(chan struct{}),
		log:       log.With().Str("component", "mm_client").Logger(),
	}
}

// Connect verifies the token and opens the WebSocket event stream.
func (c *Client) Connect(ctx context.Context) error {
	c.api = model.NewAPIv4Client(c.serverURL)
	c.api.SetToken(c.token)

	me, _, err := c.api.GetMe(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to verify Mattermost session: %w", err)
	}
	c.userID = me.Id
	c.log.Info().Str("user_id", me.Id).Str("username", me.Username).Msg("Authenticated")

	if err := c.connectWebSocket(); err != nil {
		return err
	}
	return nil
}

func (c *Client) connectWebSocket() error {
	wsURL := httpToWS(c.serverURL)
	var err error
	c.ws, err = model.NewWebSocketClient4(wsURL, c.api.AuthToken)
	if err != nil {
		return fmt.Errorf("failed to create websocket client: %w", err)
	}
	c.ws.Listen()

	go c.listenWebSocket()

	c.log.Info().Str("ws_url", wsURL).Msg("WebSocket connected")
	return nil
}

// httpToWS converts an HTTP(S) URL to a WS(S) URL.
func httpToWS(url string) string {
	if strings.HasPrefix(url, "https://") {
		return "wss://" + strings.TrimPrefix(url, "https://")
	}
	if strings.HasPrefix(url, "http://") {
		return "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url
}

func (c *Client) listenWebSocket() {
	for {
		select {
		case <-c.stopChan:
			return
		case event, ok := <-c.ws.EventChannel:
			if !ok {
				c.log.Warn().Msg("WebSocket event channel closed, reconnecting")
				c.handleWebSocketDisconnect()
				return
			}
			if event == nil {
				continue
			}
			c.handleEvent(event)
		}
	}
}

func (c *Client) handleWebSocketDisconnect() {
	select {
	case <-c.stopChan:
		return
	default:
	}
	if err := c.connectWebSocket(); err != nil {
		c.log.Error().Err(err).Msg("Failed to reconnect WebSocket, closing session")
		close(c.events)
	}
}

// Events returns the inbound event stream.
func (c *Client) Events() <-chan bot.Event {
	return c.events
}

// BotUserID returns the authenticated bot user's Mattermost ID.
func (c *Client) BotUserID() string {
	return c.userID
}

// Close stops the WebSocket listener and releases the connection.
func (c *Client) Close() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
	if c.ws != nil {
		c.ws.Close()
		c.ws = nil
	}
}

// PostMessage implements pagination.Client.
func (c *Client) PostMessage(ctx context.Context, channelID string, page pagination.Page) (pagination.MessageRef, error) {
	post := &model.Post{
		ChannelId: channelID,
		Message:   page.Text,
	}
	if page.IsEmbed() {
		post.AddProp("attachments", []*model.SlackAttachment{embedToAttachment(page.Embed)})
	}
	created, _, err := c.api.CreatePost(ctx, post)
	if err != nil {
		return pagination.MessageRef{}, fmt.Errorf("failed to create post: %w", translateErr(err))
	}
	return pagination.MessageRef{ChannelID: channelID, MessageID: created.Id}, nil
}

// EditMessage implements pagination.Client.
func (c *Client) EditMessage(ctx context.Context, ref pagination.MessageRef, page pagination.Page) error {
	patch := &model.PostPatch{
		Message: &page.Text,
	}
	if page.IsEmbed() {
		props := model.StringInterface{
			"attachments": []*model.SlackAttachment{embedToAttachment(page.Embed)},
		}
		patch.Props = &props
	}
	if _, _, err := c.api.PatchPost(ctx, ref.MessageID, patch); err != nil {
		return fmt.Errorf("failed to edit post: %w", translateErr(err))
	}
	return nil
}

// DeleteMessage implements pagination.Client.
func (c *Client) DeleteMessage(ctx context.Context, ref pagination.MessageRef) error {
	if _, err := c.api.DeletePost(ctx, ref.MessageID); err != nil {
		return fmt.Errorf("failed to delete post: %w", translateErr(err))
	}
	return nil
}

// AddReaction implements pagination.Client.
func (c *Client) AddReaction(ctx context.Context, ref pagination.MessageRef, trigger string) error {
	_, _, err := c.api.SaveReaction(ctx, &model.Reaction{
		UserId:    c.userID,
		PostId:    ref.MessageID,
		EmojiName: nameForTrigger(trigger),
	})
	if err != nil {
		return fmt.Errorf("failed to save reaction: %w", translateErr(err))
	}
	return nil
}

// RemoveReaction implements pagination.Client.
func (c *Client) RemoveReaction(ctx context.Context, ref pagination.MessageRef, trigger, userID string) error {
	_, err := c.api.DeleteReaction(ctx, &model.Reaction{
		UserId:    userID,
		PostId:    ref.MessageID,
		EmojiName: nameForTrigger(trigger),
	})
	if err != nil {
		return fmt.Errorf("failed to remove reaction: %w", translateErr(err))
	}
	return nil
}

// ClearReactions implements pagination.Client. Mattermost has no bulk clear,
// so every present reaction is deleted individually.
func (c *Client) ClearReactions(ctx context.Context, ref pagination.MessageRef) error {
	reactions, _, err := c.api.GetReactions(ctx, ref.MessageID)
	if err != nil {
		return fmt.Errorf("failed to list reactions: %w", translateErr(err))
	}
	for _, r := range reactions {
		if _, err := c.api.DeleteReaction(ctx, r); err != nil {
			c.log.Debug().Err(err).Str("emoji", r.EmojiName).Msg("Failed to delete reaction during clear")
		}
	}
	return nil
}

// embedToAttachment renders a platform-neutral embed as a Slack-compatible
// message attachment.
func embedToAttachment(e *pagination.Embed) *model.SlackAttachment {
	att := &model.SlackAttachment{
		Fallback:  e.Title,
		Color:     e.Color,
		Title:     e.Title,
		TitleLink: e.URL,
		Text:      e.Description,
		ImageURL:  e.ImageURL,
		Footer:    e.Footer,
	}
	for _, f := range e.Fields {
		att.Fields = append(att.Fields, &model.SlackAttachmentField{
			Title: f.Name,
			Value: f.Value,
			Short: model.SlackCompatibleBool(f.Inline),
		})
	}
	return att
}

// translateErr maps Mattermost API errors onto the pagination error
// vocabulary so the engine can recognize vanished messages.
func translateErr(err error) error {
	var appErr *model.AppError
	if errors.As(err, &appErr) && appErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", pagination.ErrNotFound, err)
	}
	return err
}

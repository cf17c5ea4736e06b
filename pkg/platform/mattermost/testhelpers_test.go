// Copyright 2024-2026 Aiku AI

package mattermost

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/rs/zerolog"
)

// endpointCall records which API endpoints were hit during a test.
type endpointCall struct {
	Method string
	Path   string
	Body   string
}

// fakeMM wraps an httptest.Server simulating the Mattermost REST API. It
// records calls and provides canned responses.
type fakeMM struct {
	Server *httptest.Server

	mu    sync.Mutex
	calls []endpointCall

	// Reactions is returned by GET /api/v4/posts/{id}/reactions.
	Reactions []*model.Reaction
	// NotFoundEndpoints causes matching path substrings to return 404 with
	// an AppError body.
	NotFoundEndpoints map[string]bool
}

func newFakeMM() *fakeMM {
	f := &fakeMM{NotFoundEndpoints: make(map[string]bool)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handler))
	return f
}

func (f *fakeMM) Close() {
	f.Server.Close()
}

func (f *fakeMM) record(method, path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, endpointCall{Method: method, Path: path, Body: body})
}

func (f *fakeMM) Calls() []endpointCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]endpointCall, len(f.calls))
	copy(cp, f.calls)
	return cp
}

func (f *fakeMM) CallsMatching(method, pathPart string) []endpointCall {
	var out []endpointCall
	for _, c := range f.Calls() {
		if c.Method == method && strings.Contains(c.Path, pathPart) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeMM) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.record(r.Method, r.URL.Path, string(body))

	path := r.URL.Path
	for part := range f.NotFoundEndpoints {
		if strings.Contains(path, part) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(&model.AppError{
				Id:         "api.context.404.app_error",
				Message:    "not found",
				StatusCode: http.StatusNotFound,
			})
			return
		}
	}

	switch {
	// GET /api/v4/users/me
	case r.Method == "GET" && path == "/api/v4/users/me":
		_ = json.NewEncoder(w).Encode(&model.User{Id: "bot-user", Username: "pagebot"})

	// POST /api/v4/posts
	case r.Method == "POST" && path == "/api/v4/posts":
		var post model.Post
		_ = json.Unmarshal(body, &post)
		post.Id = "created-post-id"
		_ = json.NewEncoder(w).Encode(&post)

	// PUT /api/v4/posts/{post_id}/patch
	case r.Method == "PUT" && strings.HasSuffix(path, "/patch"):
		_ = json.NewEncoder(w).Encode(&model.Post{Id: "patched"})

	// DELETE /api/v4/posts/{post_id}
	case r.Method == "DELETE" && strings.HasPrefix(path, "/api/v4/posts/"):
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})

	// GET /api/v4/posts/{post_id}/reactions
	case r.Method == "GET" && strings.HasSuffix(path, "/reactions"):
		_ = json.NewEncoder(w).Encode(f.Reactions)

	// POST /api/v4/reactions
	case r.Method == "POST" && path == "/api/v4/reactions":
		var reaction model.Reaction
		_ = json.Unmarshal(body, &reaction)
		_ = json.NewEncoder(w).Encode(&reaction)

	// DELETE /api/v4/users/{user_id}/posts/{post_id}/reactions/{emoji_name}
	case r.Method == "DELETE" && strings.Contains(path, "/reactions/"):
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})

	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "not found: " + path})
	}
}

// newTestClient returns a Client wired to the fake server, authenticated as
// "bot-user", without a WebSocket connection.
func newTestClient(f *fakeMM) *Client {
	c := New(f.Server.URL, "test-token", zerolog.Nop())
	c.api = model.NewAPIv4Client(f.Server.URL)
	c.api.SetToken("test-token")
	c.userID = "bot-user"
	return c
}

// newWebSocketEvent builds a model.WebSocketEvent for handler tests.
func newWebSocketEvent(eventType model.WebsocketEventType, channelID string, data map[string]any) *model.WebSocketEvent {
	evt := model.NewWebSocketEvent(eventType, "", channelID, "", nil, "")
	return evt.SetData(data)
}

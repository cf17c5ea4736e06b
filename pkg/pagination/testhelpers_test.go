// Copyright 2024-2026 Aiku AI

package pagination

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// clientCall records one boundary call for test assertions.
type clientCall struct {
	Op      string // "post", "edit", "delete", "add_react", "remove_react", "clear_reacts"
	Ref     MessageRef
	Page    Page
	Trigger string
	UserID  string
}

// mockClient is a recording pagination.Client. Individual operations can be
// made to fail by op name.
type mockClient struct {
	mu      sync.Mutex
	calls   []clientCall
	nextID  int
	failOps map[string]error
}

var _ Client = (*mockClient)(nil)

func newMockClient() *mockClient {
	return &mockClient{failOps: make(map[string]error)}
}

func (m *mockClient) record(c clientCall) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	return m.failOps[c.Op]
}

func (m *mockClient) Calls() []clientCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]clientCall, len(m.calls))
	copy(cp, m.calls)
	return cp
}

func (m *mockClient) CallsOf(op string) []clientCall {
	var out []clientCall
	for _, c := range m.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (m *mockClient) failWith(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOps[op] = err
}

func (m *mockClient) PostMessage(_ context.Context, channelID string, page Page) (MessageRef, error) {
	m.mu.Lock()
	m.nextID++
	ref := MessageRef{ChannelID: channelID, MessageID: fmt.Sprintf("msg-%d", m.nextID)}
	m.mu.Unlock()
	if err := m.record(clientCall{Op: "post", Ref: ref, Page: page}); err != nil {
		return MessageRef{}, err
	}
	return ref, nil
}

func (m *mockClient) EditMessage(_ context.Context, ref MessageRef, page Page) error {
	return m.record(clientCall{Op: "edit", Ref: ref, Page: page})
}

func (m *mockClient) DeleteMessage(_ context.Context, ref MessageRef) error {
	return m.record(clientCall{Op: "delete", Ref: ref})
}

func (m *mockClient) AddReaction(_ context.Context, ref MessageRef, trigger string) error {
	return m.record(clientCall{Op: "add_react", Ref: ref, Trigger: trigger})
}

func (m *mockClient) RemoveReaction(_ context.Context, ref MessageRef, trigger, userID string) error {
	return m.record(clientCall{Op: "remove_react", Ref: ref, Trigger: trigger, UserID: userID})
}

func (m *mockClient) ClearReactions(_ context.Context, ref MessageRef) error {
	return m.record(clientCall{Op: "clear_reacts", Ref: ref})
}

// testContext returns a build context over a fresh mock client and registry.
func testContext(client *mockClient) Context {
	return Context{
		Client:     client,
		Registry:   NewRegistry(zerolog.Nop()),
		Log:        zerolog.Nop(),
		ChannelID:  "ch1",
		InvokerID:  "owner",
		BotOwnerID: "admin",
	}
}

// textPages builds n trivially distinguishable text pages.
func textPages(n int) []Page {
	pages := make([]Page, n)
	for i := range pages {
		pages[i] = Page{Text: fmt.Sprintf("page %d", i)}
	}
	return pages
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// press routes a reaction through the registry and waits until the
// navigator has consumed it (signalled by the trailing RemoveReaction for
// that user, or the navigator dying).
func press(t *testing.T, bctx Context, n *Navigator, userID, trigger string) {
	t.Helper()
	client := bctx.Client.(*mockClient)
	before := len(client.CallsOf("remove_react"))
	if !bctx.Registry.HandleReaction(n.Root().MessageID, userID, trigger) {
		return
	}
	waitFor(t, "interaction to be consumed", func() bool {
		return len(client.CallsOf("remove_react")) > before || !n.Alive()
	})
}

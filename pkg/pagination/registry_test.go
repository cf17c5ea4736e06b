// Copyright 2024-2026 Aiku AI

package pagination

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRegistryIgnoresUnknownMessage(t *testing.T) {
	t.Parallel()
	r := NewRegistry(zerolog.Nop())
	if r.HandleReaction("no-such-message", "owner", TriggerForward) {
		t.Error("reaction for unknown message should not be delivered")
	}
}

func TestRegistryIgnoresDeadNavigator(t *testing.T) {
	t.Parallel()
	client := newMockClient()
	bctx := testContext(client)
	n := startNavigator(t, bctx, textPages(2))

	n.Kill(CleanupNone)
	<-n.Done()

	if bctx.Registry.HandleReaction(n.Root().MessageID, "owner", TriggerForward) {
		t.Error("reaction for dead navigator should not be delivered")
	}
}

func TestRegistryShutdownKillsAll(t *testing.T) {
	t.Parallel()
	client := newMockClient()
	bctx := testContext(client)

	navs := make([]*Navigator, 3)
	for i := range navs {
		navs[i] = startNavigator(t, bctx, textPages(2))
	}
	if got := bctx.Registry.Len(); got != 3 {
		t.Fatalf("registry size: got %d, want 3", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	bctx.Registry.Shutdown(ctx)

	for i, n := range navs {
		if n.State() != StateKilled {
			t.Errorf("navigator %d: state %s, want killed", i, n.State())
		}
	}
	if got := bctx.Registry.Len(); got != 0 {
		t.Errorf("registry size after shutdown: got %d, want 0", got)
	}
	// Shutdown policy clears reactions and marks every root message.
	if got := len(client.CallsOf("clear_reacts")); got != 3 {
		t.Errorf("clears: got %d, want 3", got)
	}
	shutdownReacts := 0
	for _, c := range client.CallsOf("add_react") {
		if c.Trigger == ShutdownTrigger {
			shutdownReacts++
		}
	}
	if shutdownReacts != 3 {
		t.Errorf("shutdown reacts: got %d, want 3", shutdownReacts)
	}
}

func TestRegistryShutdownEmptyIsNoop(t *testing.T) {
	t.Parallel()
	r := NewRegistry(zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	r.Shutdown(ctx)
}

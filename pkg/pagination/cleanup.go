// Copyright 2024-2026 Aiku AI

package pagination

import (
	"context"
	"strings"
)

// CleanupPolicy selects which teardown actions run when a navigator reaches
// a terminal state. Flags combine with bitwise OR.
type CleanupPolicy uint8

const (
	// CleanupRemoveReactions clears every reaction from the root message.
	CleanupRemoveReactions CleanupPolicy = 1 << iota
	// CleanupRemoveChildMessages deletes supplementary messages and keeps
	// the root page message.
	CleanupRemoveChildMessages
	// CleanupRemoveAllMessages deletes the root and every supplementary
	// message the navigator posted. Takes precedence over
	// CleanupRemoveChildMessages.
	CleanupRemoveAllMessages
	// CleanupShutdownReact posts one final shutdown reaction on the root
	// message before releasing it.
	CleanupShutdownReact

	// CleanupNone runs no teardown actions at all.
	CleanupNone CleanupPolicy = 0
)

// Has reports whether the policy includes the given flag.
func (p CleanupPolicy) Has(flag CleanupPolicy) bool {
	return p&flag != 0
}

func (p CleanupPolicy) String() string {
	if p == CleanupNone {
		return "none"
	}
	var parts []string
	if p.Has(CleanupRemoveReactions) {
		parts = append(parts, "remove_reactions")
	}
	if p.Has(CleanupRemoveChildMessages) {
		parts = append(parts, "remove_child_messages")
	}
	if p.Has(CleanupRemoveAllMessages) {
		parts = append(parts, "remove_all_messages")
	}
	if p.Has(CleanupShutdownReact) {
		parts = append(parts, "shutdown_react")
	}
	return strings.Join(parts, "|")
}

// cleanup runs the teardown steps selected by the policy in a fixed order:
// message deletion first, then reaction clearing, then the shutdown react.
// Every step is best-effort: a message already deleted by a moderator or a
// revoked permission must not stop the remaining steps.
func (n *Navigator) cleanup(ctx context.Context, policy CleanupPolicy) {
	switch {
	case policy.Has(CleanupRemoveAllMessages):
		for _, ref := range append([]MessageRef{n.root}, n.extras...) {
			if err := n.client.DeleteMessage(ctx, ref); err != nil {
				n.log.Debug().Err(err).Str("target_id", ref.MessageID).Msg("Cleanup delete failed")
			}
		}
	case policy.Has(CleanupRemoveChildMessages):
		for _, ref := range n.extras {
			if err := n.client.DeleteMessage(ctx, ref); err != nil {
				n.log.Debug().Err(err).Str("target_id", ref.MessageID).Msg("Cleanup delete failed")
			}
		}
	}

	if policy.Has(CleanupRemoveReactions) {
		if err := n.client.ClearReactions(ctx, n.root); err != nil {
			n.log.Debug().Err(err).Msg("Cleanup clear reactions failed")
		}
	}

	if policy.Has(CleanupShutdownReact) {
		if err := n.client.AddReaction(ctx, n.root, ShutdownTrigger); err != nil {
			n.log.Debug().Err(err).Msg("Cleanup shutdown react failed")
		}
	}
}

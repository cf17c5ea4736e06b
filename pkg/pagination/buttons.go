// Copyright 2024-2026 Aiku AI

package pagination

import "context"

// Standard button triggers. Platform adapters translate these Unicode emoji
// into whatever their platform uses for reactions.
const (
	TriggerFirst   = "\u23ea"       // rewind
	TriggerBack    = "\u25c0\ufe0f" // arrow_backward
	TriggerForward = "\u25b6\ufe0f" // arrow_forward
	TriggerLast    = "\u23e9"       // fast_forward
	TriggerStop    = "\U0001f512"   // lock

	// ShutdownTrigger is the reaction added to a root message when the
	// navigator is torn down with CleanupShutdownReact.
	ShutdownTrigger = "\U0001f6d1" // octagonal sign
)

// Button binds a reaction trigger to a permission predicate and an effect.
// Buttons are plain data: stateless, read-only after construction and shared
// across navigator instances. The Press effect runs on the owning
// navigator's event goroutine, so it may call the navigator's mutators
// without further synchronization.
type Button struct {
	Name    string
	Trigger string
	// Predicate decides whether the acting user may press this button. A nil
	// predicate falls back to OwnerPredicate.
	Predicate func(userID string, nav *Navigator) bool
	Press     func(ctx context.Context, nav *Navigator)
}

// OwnerPredicate is the default permission check: only the invoking user and
// the bot owner may drive the navigator.
func OwnerPredicate(userID string, nav *Navigator) bool {
	return userID == nav.invoker || (nav.botOwner != "" && userID == nav.botOwner)
}

// DefaultButtons returns the standard ordered action set: first, back,
// forward, last, stop. Triggers are registered on the root message in this
// order, and platforms that render reactions in registration order will show
// them left to right as listed.
func DefaultButtons() []Button {
	return []Button{
		{
			Name:    "first",
			Trigger: TriggerFirst,
			Press:   func(_ context.Context, nav *Navigator) { nav.First() },
		},
		{
			Name:    "back",
			Trigger: TriggerBack,
			Press:   func(_ context.Context, nav *Navigator) { nav.Back() },
		},
		{
			Name:    "forward",
			Trigger: TriggerForward,
			Press:   func(_ context.Context, nav *Navigator) { nav.Forward() },
		},
		{
			Name:    "last",
			Trigger: TriggerLast,
			Press:   func(_ context.Context, nav *Navigator) { nav.Last() },
		},
		{
			Name:    "stop",
			Trigger: TriggerStop,
			Press: func(_ context.Context, nav *Navigator) {
				nav.Stop(CleanupRemoveAllMessages | CleanupRemoveReactions)
			},
		},
	}
}

// Copyright 2024-2026 Aiku AI

package pagination

import (
	"context"

	"github.com/rs/zerolog"
	"go.mau.fi/util/exsync"
)

// Registry is the process-wide collection of active navigators, keyed by
// root message ID. Navigators insert themselves on Start and remove
// themselves on every terminal transition, so no entry outlives its session
// and no weak references are needed. No two navigators ever share a message
// ID; the map's atomic insert enforces that.
type Registry struct {
	log        zerolog.Logger
	navigators *exsync.Map[string, *Navigator]
}

// NewRegistry creates an empty navigator registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		log:        log.With().Str("component", "nav_registry").Logger(),
		navigators: exsync.NewMap[string, *Navigator](),
	}
}

func (r *Registry) add(n *Navigator) error {
	if _, loaded := r.navigators.GetOrSet(n.root.MessageID, n); loaded {
		return ErrDuplicateMessage
	}
	return nil
}

func (r *Registry) remove(messageID string) {
	r.navigators.Delete(messageID)
}

// Get returns the live navigator bound to the given message ID, if any.
func (r *Registry) Get(messageID string) (*Navigator, bool) {
	return r.navigators.Get(messageID)
}

// Len returns the number of live navigators.
func (r *Registry) Len() int {
	return len(r.navigators.CopyData())
}

// HandleReaction routes a reaction event to the navigator bound to the given
// message, if one exists and is still alive. Events for unknown messages,
// dead navigators or saturated navigators are dropped; it reports whether
// the event was delivered.
func (r *Registry) HandleReaction(messageID, userID, trigger string) bool {
	nav, ok := r.navigators.Get(messageID)
	if !ok || !nav.Alive() {
		return false
	}
	select {
	case nav.events <- interaction{userID: userID, trigger: trigger}:
		return true
	default:
		r.log.Warn().Str("message_id", messageID).Msg("Navigator event queue full, dropping reaction")
		return false
	}
}

// Shutdown kills every remaining navigator and waits for their cleanup to
// finish or the context to expire. Called on process shutdown.
func (r *Registry) Shutdown(ctx context.Context) {
	remaining := r.navigators.CopyData()
	if len(remaining) == 0 {
		return
	}
	r.log.Info().Int("count", len(remaining)).Msg("Shutting down live navigators")

	for _, nav := range remaining {
		nav.Kill(CleanupRemoveReactions | CleanupShutdownReact)
	}
	for _, nav := range remaining {
		select {
		case <-nav.Done():
		case <-ctx.Done():
			return
		}
	}
}

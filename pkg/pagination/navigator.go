// Copyright 2024-2026 Aiku AI

package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout is the sliding idle timeout applied when no override is
// given. It matches the classic five minute navigator lifetime.
const DefaultTimeout = 5 * time.Minute

// State is the navigator lifecycle state. The only transitions are
// Unstarted -> Active and Active -> one of the three terminal states.
type State int

const (
	StateUnstarted State = iota
	StateActive
	StateTimedOut
	StateKilled
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateActive:
		return "active"
	case StateTimedOut:
		return "timed_out"
	case StateKilled:
		return "killed"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// interaction is one reaction event routed to a navigator by the registry.
type interaction struct {
	userID  string
	trigger string
}

// killRequest carries an externally requested terminal transition into the
// event goroutine.
type killRequest struct {
	state  State
	policy CleanupPolicy
}

// Option configures a Navigator at build time.
type Option func(*buildOptions)

type buildOptions struct {
	buttons     []Button
	timeout     time.Duration
	initialPage int
	extras      []MessageRef
}

// WithButtons replaces the default action set. Triggers are registered on
// the root message in the supplied order.
func WithButtons(buttons ...Button) Option {
	return func(o *buildOptions) { o.buttons = buttons }
}

// WithTimeout overrides the sliding idle timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *buildOptions) { o.timeout = d }
}

// WithInitialPage sets the zero-based page index shown first.
func WithInitialPage(i int) Option {
	return func(o *buildOptions) { o.initialPage = i }
}

// WithExtraMessages attaches supplementary messages (e.g. uploaded
// attachments posted alongside the root) that the cleanup policy may delete.
func WithExtraMessages(refs ...MessageRef) Option {
	return func(o *buildOptions) { o.extras = refs }
}

// Navigator is the live binding between a built page sequence and a posted
// message. It owns its pages, tracks the current page index and drives all
// message edits in response to reaction events routed to it by the Registry.
//
// All interaction handling happens on a single goroutine spawned by Start,
// so events for one navigator are processed strictly in arrival order.
type Navigator struct {
	client   Client
	registry *Registry
	log      zerolog.Logger

	pages   []Page
	buttons []Button
	timeout time.Duration

	channelID string
	invoker   string
	botOwner  string

	root   MessageRef
	extras []MessageRef

	events chan interaction
	kills  chan killRequest
	done   chan struct{}

	mu    sync.Mutex
	state State
	index int

	// pendingStop is set by Stop from inside a button press and consumed by
	// the event goroutine after the press returns.
	pendingStop *CleanupPolicy
}

func newNavigator(bctx Context, pages []Page, opts ...Option) (*Navigator, error) {
	if err := bctx.validate(); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("navigator: no pages to display")
	}

	o := buildOptions{
		buttons: DefaultButtons(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.initialPage < 0 || o.initialPage >= len(pages) {
		return nil, fmt.Errorf("navigator: initial page %d out of range [0, %d)", o.initialPage, len(pages))
	}
	if o.timeout <= 0 {
		return nil, fmt.Errorf("navigator: non-positive timeout %s", o.timeout)
	}

	return &Navigator{
		client:    bctx.Client,
		registry:  bctx.Registry,
		log:       bctx.Log.With().Str("component", "navigator").Str("channel_id", bctx.ChannelID).Logger(),
		pages:     pages,
		buttons:   o.buttons,
		timeout:   o.timeout,
		channelID: bctx.ChannelID,
		invoker:   bctx.InvokerID,
		botOwner:  bctx.BotOwnerID,
		extras:    o.extras,
		events:    make(chan interaction, 16),
		kills:     make(chan killRequest, 1),
		done:      make(chan struct{}),
		state:     StateUnstarted,
		index:     o.initialPage,
	}, nil
}

// Start posts the initial page, registers the button triggers in order,
// inserts the navigator into the registry and spawns the event goroutine.
// A failed initial post is surfaced to the caller and the navigator never
// becomes active; trigger registration failures are logged and tolerated.
func (n *Navigator) Start(ctx context.Context) error {
	n.mu.Lock()
	if n.state != StateUnstarted {
		n.mu.Unlock()
		return ErrAlreadyStarted
	}
	page := n.pages[n.index]
	n.mu.Unlock()

	root, err := n.client.PostMessage(ctx, n.channelID, page)
	if err != nil {
		return fmt.Errorf("failed to post initial page: %w", err)
	}
	n.root = root
	n.log = n.log.With().Str("message_id", root.MessageID).Logger()

	for _, b := range n.buttons {
		if err := n.client.AddReaction(ctx, root, b.Trigger); err != nil {
			n.log.Warn().Err(err).Str("button", b.Name).Msg("Failed to register button trigger")
		}
	}

	if err := n.registry.add(n); err != nil {
		return err
	}
	n.mu.Lock()
	n.state = StateActive
	n.mu.Unlock()

	n.log.Debug().
		Int("pages", len(n.pages)).
		Dur("timeout", n.timeout).
		Msg("Navigator started")

	// The event goroutine must outlive the invoking command's context.
	go n.loop(context.WithoutCancel(ctx))
	return nil
}

// loop is the single consumer of this navigator's interaction events. The
// idle timer slides: it resets on every valid interaction, never on rejected
// ones.
func (n *Navigator) loop(ctx context.Context) {
	timer := time.NewTimer(n.timeout)
	defer timer.Stop()

	for {
		select {
		case <-timer.C:
			n.finish(ctx, StateTimedOut, CleanupRemoveReactions)
			return

		case req := <-n.kills:
			n.finish(ctx, req.state, req.policy)
			return

		case evt := <-n.events:
			valid, gone := n.handleInteraction(ctx, evt)
			if gone {
				// Root message vanished externally; nothing left to clean up.
				n.finish(ctx, StateKilled, CleanupNone)
				return
			}
			if p := n.takePendingStop(); p != nil {
				n.finish(ctx, StateCompleted, *p)
				return
			}
			if valid {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(n.timeout)
			}
		}
	}
}

// handleInteraction applies one reaction event. It reports whether the
// interaction was valid, and whether the root message turned out to no
// longer exist.
func (n *Navigator) handleInteraction(ctx context.Context, evt interaction) (valid, gone bool) {
	btn := n.buttonFor(evt.trigger)
	allowed := false
	if btn != nil {
		predicate := btn.Predicate
		if predicate == nil {
			predicate = OwnerPredicate
		}
		allowed = predicate(evt.userID, n)
	}
	if !allowed {
		// Silently discard: strip the offending reaction, change nothing.
		if err := n.client.RemoveReaction(ctx, n.root, evt.trigger, evt.userID); err != nil {
			n.log.Debug().Err(err).Str("user_id", evt.userID).Msg("Failed to remove rejected reaction")
		}
		return false, false
	}

	before := n.CurrentIndex()
	btn.Press(ctx, n)
	after := n.CurrentIndex()

	if after != before {
		if err := n.client.EditMessage(ctx, n.root, n.pages[after]); err != nil {
			if errors.Is(err, ErrNotFound) {
				n.log.Info().Msg("Root message deleted externally, ending session")
				return true, true
			}
			n.log.Warn().Err(err).Int("page", after).Msg("Failed to edit page")
		}
	}

	// Clear the consumed trigger so the same user can press it again.
	if err := n.client.RemoveReaction(ctx, n.root, evt.trigger, evt.userID); err != nil {
		n.log.Debug().Err(err).Str("button", btn.Name).Msg("Failed to remove consumed reaction")
	}
	return true, false
}

func (n *Navigator) buttonFor(trigger string) *Button {
	for i := range n.buttons {
		if n.buttons[i].Trigger == trigger {
			return &n.buttons[i]
		}
	}
	return nil
}

// finish performs the single irreversible Active -> terminal transition,
// removes the navigator from the registry and runs the cleanup policy.
func (n *Navigator) finish(ctx context.Context, terminal State, policy CleanupPolicy) {
	n.mu.Lock()
	if n.state != StateActive {
		n.mu.Unlock()
		return
	}
	n.state = terminal
	n.mu.Unlock()

	n.registry.remove(n.root.MessageID)
	n.cleanup(ctx, policy)
	n.log.Debug().Stringer("state", terminal).Msg("Navigator finished")
	close(n.done)
}

// Kill requests an explicit external termination with the given cleanup
// policy. It returns immediately; the event goroutine performs the
// transition. Killing a navigator that is not active is a no-op.
func (n *Navigator) Kill(policy CleanupPolicy) {
	if !n.Alive() {
		return
	}
	select {
	case n.kills <- killRequest{state: StateKilled, policy: policy}:
	default:
		// A terminal transition is already pending.
	}
}

// Stop marks the navigator as completed with the given cleanup policy. It is
// meant to be called from a button press effect; the transition happens once
// the press returns.
func (n *Navigator) Stop(policy CleanupPolicy) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pendingStop == nil {
		n.pendingStop = &policy
	}
}

func (n *Navigator) takePendingStop() *CleanupPolicy {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.pendingStop
	n.pendingStop = nil
	return p
}

// Done returns a channel closed once the navigator has reached a terminal
// state and finished its cleanup.
func (n *Navigator) Done() <-chan struct{} {
	return n.done
}

// Alive reports whether the navigator is active.
func (n *Navigator) Alive() bool {
	return n.State() == StateActive
}

// State returns the current lifecycle state.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Root returns the message the navigator is bound to. Only valid after a
// successful Start.
func (n *Navigator) Root() MessageRef {
	return n.root
}

// CurrentIndex returns the zero-based index of the displayed page.
func (n *Navigator) CurrentIndex() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index
}

// PageCount returns the number of pages held by the navigator.
func (n *Navigator) PageCount() int {
	return len(n.pages)
}

// JumpTo moves to the given page index, clamping to the valid range.
func (n *Navigator) JumpTo(i int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if i < 0 {
		i = 0
	}
	if i >= len(n.pages) {
		i = len(n.pages) - 1
	}
	n.index = i
}

// First jumps to the first page.
func (n *Navigator) First() { n.JumpTo(0) }

// Last jumps to the last page.
func (n *Navigator) Last() { n.JumpTo(len(n.pages) - 1) }

// Back moves one page back, staying put at the first page.
func (n *Navigator) Back() { n.JumpTo(n.CurrentIndex() - 1) }

// Forward moves one page forward, staying put at the last page.
func (n *Navigator) Forward() { n.JumpTo(n.CurrentIndex() + 1) }

// Copyright 2024-2026 Aiku AI

// Package pagination splits long content into pages and renders it as an
// interactive document in a chat channel: one message whose content is
// swapped in place as users press reaction "buttons".
//
// # Core Types
//
// [Paginator] accumulates lines and blocks of text and seals them into
// size-bounded pages, with explicit page-break control and optional
// hard truncation of overlong lines.
//
// [StringFactory] and [EmbedFactory] share the Paginator buffer and render
// the sealed pages either as fenced plain text or as rich [Embed] records.
// Both build a [Navigator] via Build or Start.
//
// [Navigator] binds a built page sequence to a live posted message and runs
// a small state machine (Unstarted -> Active -> TimedOut/Killed/Completed)
// on its own event goroutine. Reaction events reach it through the
// process-wide [Registry]; everything else - ownership checks, sliding idle
// timeout, page edits, teardown - is internal.
//
// [Button] values are plain data: a trigger emoji, a permission predicate
// and an effect. [DefaultButtons] returns the standard first/back/forward/
// last/stop set.
//
// [CleanupPolicy] selects which best-effort teardown actions run when a
// navigator terminates.
//
// # Platform Boundary
//
// The engine talks to the chat platform exclusively through the [Client]
// interface. Adapters for concrete platforms live under pkg/platform and
// must map their "message no longer exists" failures to [ErrNotFound].
package pagination

// Copyright 2024-2026 Aiku AI

package pagination

import "errors"

var (
	// ErrNotFound is returned by Client implementations when the target
	// message no longer exists on the platform. The Navigator treats an
	// edit failing with this error as an implicit kill.
	ErrNotFound = errors.New("message not found")

	// ErrAlreadyStarted is returned by Navigator.Start when the navigator
	// has already been started. A built page sequence binds to exactly one
	// message; construct a fresh build instead.
	ErrAlreadyStarted = errors.New("navigator already started")

	// ErrDuplicateMessage is returned when a second navigator tries to bind
	// to a message ID that already has a live navigator.
	ErrDuplicateMessage = errors.New("navigator already bound to message")

	// ErrPageSizeTooSmall is returned at construction time when the page
	// size budget cannot fit the prefix, suffix and truncation marker.
	ErrPageSizeTooSmall = errors.New("page size too small")
)

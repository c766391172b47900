package services

import "errors"

var (
	// ErrPermissionDenied aborts a reminder enable when notification
	// permission is refused; nothing is persisted or scheduled.
	ErrPermissionDenied = errors.New("notification permission denied")

	// ErrIncompleteOrder rejects a strict reorder whose id list does not
	// cover every current step.
	ErrIncompleteOrder = errors.New("step ordering does not cover all steps")

	ErrInvalidRoutineType = errors.New("invalid routine type")

	ErrNotFound = errors.New("not found")
)

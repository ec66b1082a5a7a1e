package model

import "errors"

var (
	// ErrValidation marks a malformed request rejected before touching storage.
	ErrValidation = errors.New("validation error")

	// ErrStorage marks a persistence failure. No retry is performed; the
	// caller decides what to do with it.
	ErrStorage = errors.New("storage error")

	// ErrNotify marks a failed change-event publish. It never rolls back or
	// fails an already committed write.
	ErrNotify = errors.New("notify error")
)

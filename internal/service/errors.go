// Package service implements the booking engine: validation of raw
// request parameters and the transactional table allocation algorithm.
// Failures are reported through a closed error taxonomy so that the
// HTTP layer can map each kind to a status code without inspecting
// message text.
package service

import (
	"errors"
	"fmt"
)

// Kind classifies a booking failure.  The set is closed: every error the
// engine surfaces carries exactly one of these kinds.
type Kind int

const (
	// KindInvalidInput marks malformed or out-of-range request
	// parameters.  The caller can recover by correcting the input.
	KindInvalidInput Kind = iota + 1
	// KindNotFound marks a missing reservation id or a fresh creation
	// that no table can satisfy.
	KindNotFound
	// KindConflict marks a replace request that no table can satisfy:
	// the caller's previous slot was displaced and cannot be refilled.
	KindConflict
)

// Error is the failure value returned by the engine.  The enclosing
// transaction is always rolled back before an Error is surfaced.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// KindOf extracts the failure kind from err, or 0 when err was not
// produced by the engine.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func invalidf(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

package faults

import (
	"errors"
	"fmt"
)

// Kind classifies a fault so callers can react without parsing messages.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindPolicy       Kind = "policy"
	KindInvalidState Kind = "invalid_state"
)

// Error is the single recoverable error type surfaced by the scheduling core.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validationf reports malformed input (bad time range, negative price, past date).
func Validationf(format string, args ...interface{}) error {
	return newf(KindValidation, format, args...)
}

// NotFoundf reports an absent slot, session or settings document.
func NotFoundf(format string, args ...interface{}) error {
	return newf(KindNotFound, format, args...)
}

// Conflictf reports a lost booking race, an already-booked slot, or a delete
// attempt against a booked slot.
func Conflictf(format string, args ...interface{}) error {
	return newf(KindConflict, format, args...)
}

// Policyf reports a booking disallowed by the expert's current settings.
func Policyf(format string, args ...interface{}) error {
	return newf(KindPolicy, format, args...)
}

// InvalidStatef reports an illegal session lifecycle transition.
func InvalidStatef(format string, args ...interface{}) error {
	return newf(KindInvalidState, format, args...)
}

// KindOf returns the fault kind of err, or "" when err is not a fault.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsKind reports whether err carries the given fault kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

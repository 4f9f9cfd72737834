package schedulerRepo

import "errors"

var (
	// ErrSlotNotFound is returned when no slot matches the given id.
	ErrSlotNotFound = errors.New("slot not found")
	// ErrSessionNotFound is returned when no session matches the given id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSlotTaken is returned when the conditional slot reservation matched
	// nothing: another request booked, blocked or mutated the slot first.
	ErrSlotTaken = errors.New("slot no longer available")
	// ErrNoTransition is returned when a conditional status update matched
	// nothing; the session is absent or not in an allowed source state.
	ErrNoTransition = errors.New("no matching session in allowed state")
)

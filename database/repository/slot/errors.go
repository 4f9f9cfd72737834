package slotRepo

import "errors"

var (
	// ErrNotFound is returned when no slot matches the given id.
	ErrNotFound = errors.New("slot not found")
	// ErrSlotBooked is returned when a delete targets a booked slot.
	ErrSlotBooked = errors.New("slot is booked")
)

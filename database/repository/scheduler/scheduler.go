package schedulerRepo

import (
	"context"
	"time"

	"growthyari/models"
)

// SessionFilter narrows session listings; zero values mean "any".
type SessionFilter struct {
	ExpertID string
	ClientID string
	Status   models.SessionStatus
}

// SchedulerRepository defines the data access methods used by the booking
// coordinator and the session state machine. Slot reservation, slot release
// and every status transition are conditional writes so that concurrent
// requests racing on the same document resolve to exactly one winner.
type SchedulerRepository interface {
	// GetSlotByID retrieves a slot by its unique ID.
	GetSlotByID(ctx context.Context, slotID string) (*models.AvailabilitySlot, error)
	// BookSlotTransactionally inserts the pending session and marks the slot
	// booked in one multi-document transaction. The slot update is guarded by
	// isBooked=false, kind!=blocked and the version read by the caller; a
	// lost race surfaces as ErrSlotTaken and nothing is applied.
	BookSlotTransactionally(ctx context.Context, slot *models.AvailabilitySlot, session *models.Session) error

	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]models.Session, error)
	// HasOverlappingSession reports whether any non-cancelled session for the
	// expert overlaps the [windowStart, windowEnd) interval.
	HasOverlappingSession(ctx context.Context, expertID string, windowStart, windowEnd time.Time) (bool, error)

	// The Mark* methods apply a status transition conditionally on the
	// allowed source states; a write matching no document returns
	// ErrNoTransition and the caller re-reads to classify. Decline is
	// narrower than Cancel: it only applies to pending sessions. Both
	// cancel variants re-open the held slot in the same transaction as the
	// status write, so a failure applies neither mutation and the caller
	// can simply retry.
	MarkConfirmed(ctx context.Context, sessionID, meetingLink string) error
	MarkDeclined(ctx context.Context, sessionID, slotID, reason string) error
	MarkCancelled(ctx context.Context, sessionID, slotID, reason string) error
	MarkCompleted(ctx context.Context, sessionID string) error

	// ListDueForCompletion returns confirmed sessions whose scheduled end has
	// passed as of now.
	ListDueForCompletion(ctx context.Context, now time.Time) ([]models.Session, error)

	EnsureIndexes() error
}

package scheduling

import (
	"context"

	schedulerRepo "growthyari/database/repository/scheduler"
	settingsRepo "growthyari/database/repository/settings"
	"growthyari/models"
	"growthyari/services/notification"
)

// BookRequest carries a client's attempt to claim a slot.
type BookRequest struct {
	ExpertID    string `json:"expertId"`
	SlotID      string `json:"slotId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SchedulingService is the booking coordinator plus the session state
// machine: the only two places allowed to mutate slots' booked state and
// sessions' status.
type SchedulingService interface {
	// Book atomically reserves the slot for the acting client and creates
	// the session in pending status. Concurrent attempts on one slot resolve
	// to exactly one winner; losers receive a conflict fault.
	Book(ctx context.Context, actor models.Principal, req BookRequest) (*models.Session, error)

	// Confirm (expert only) moves pending → confirmed and issues the
	// meeting link.
	Confirm(ctx context.Context, actor models.Principal, sessionID string) (*models.Session, error)
	// Decline (expert only) rejects a pending session and releases its slot.
	Decline(ctx context.Context, actor models.Principal, sessionID, reason string) (*models.Session, error)
	// Cancel (either party, pre-completion) cancels the session and releases
	// its slot.
	Cancel(ctx context.Context, actor models.Principal, sessionID, reason string) (*models.Session, error)
	// Complete (either party) moves a confirmed session whose scheduled end
	// has passed to completed; completing an already-completed session is a
	// no-op. The periodic sweep completes without an actor.
	Complete(ctx context.Context, actor models.Principal, sessionID string) (*models.Session, error)
	// CompleteDue sweeps every confirmed session past its scheduled end.
	// Returns the number of sessions completed.
	CompleteDue(ctx context.Context) (int, error)

	GetSession(ctx context.Context, actor models.Principal, sessionID string) (*models.Session, error)
	// ListSessions returns the actor's sessions, as expert or as client,
	// ordered by scheduled time.
	ListSessions(ctx context.Context, actor models.Principal, asRole string, status models.SessionStatus) ([]models.Session, error)
}

// DefaultSchedulingService is the production implementation.
type DefaultSchedulingService struct {
	Repo     schedulerRepo.SchedulerRepository
	Settings settingsRepo.SettingsRepository
	Events   notification.EventPublisher
}

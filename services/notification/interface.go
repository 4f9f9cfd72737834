package notification

import (
	"context"

	"growthyari/models"
)

// Asynq task types owned by the scheduling pipeline.
const (
	TypeSessionReminder = "session:reminder"
	TypeCompleteDue     = "session:complete_due"
)

// EventPublisher surfaces session lifecycle events to the chat/notification
// collaborators and schedules pre-session reminders. Delivery to end devices
// is out of scope; this boundary stops at the published event.
type EventPublisher interface {
	SessionConfirmed(ctx context.Context, ev models.SessionConfirmedEvent) error
	SessionCancelled(ctx context.Context, ev models.SessionCancelledEvent) error
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload) error
}

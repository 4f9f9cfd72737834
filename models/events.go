package models

import "time"

// SessionConfirmedEvent is published for calendar/notification collaborators
// when an expert confirms a session.
type SessionConfirmedEvent struct {
	SessionID   string    `json:"sessionId"`
	ExpertID    string    `json:"expertId"`
	ClientID    string    `json:"clientId"`
	MeetingLink string    `json:"meetingLink"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// SessionCancelledEvent is published when a session is declined or cancelled.
type SessionCancelledEvent struct {
	SessionID string `json:"sessionId"`
	Reason    string `json:"reason"`
}

// ReminderPayload is the asynq task payload for a pre-session reminder.
type ReminderPayload struct {
	SessionID string    `json:"sessionId"`
	ExpertID  string    `json:"expertId"`
	ClientID  string    `json:"clientId"`
	Title     string    `json:"title"`
	FireAt    time.Time `json:"fireAt"`
}

package models

import "time"

// SessionStatus is the closed set of lifecycle states for a booked session.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionConfirmed SessionStatus = "confirmed"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

// sessionTransitions is the explicit transition table; anything not listed is
// rejected with an invalid-state fault rather than silently ignored.
var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionPending:   {SessionConfirmed, SessionCancelled},
	SessionConfirmed: {SessionCompleted, SessionCancelled},
	SessionCompleted: {},
	SessionCancelled: {},
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s SessionStatus) Terminal() bool {
	return len(sessionTransitions[s]) == 0
}

// Session is a booked meeting between one expert and one client, bound to
// exactly one availability slot.
type Session struct {
	ID                 string        `bson:"id" json:"id"`
	ExpertID           string        `bson:"expertId" json:"expertId"`
	ClientID           string        `bson:"clientId" json:"clientId"`
	Title              string        `bson:"title" json:"title"`
	Description        string        `bson:"description,omitempty" json:"description,omitempty"`
	DurationMinutes    int           `bson:"durationMinutes" json:"durationMinutes"`
	Price              float64       `bson:"price" json:"price"`
	ScheduledAt        time.Time     `bson:"scheduledAt" json:"scheduledAt"`
	Status             SessionStatus `bson:"status" json:"status"`
	MeetingLink        string        `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`
	SourceSlotID       string        `bson:"sourceSlotId" json:"sourceSlotId"`
	CancellationReason string        `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	Version            int           `bson:"version" json:"version"`
	CreatedAt          time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// EndsAt returns the scheduled end of the session.
func (s *Session) EndsAt() time.Time {
	return s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// IsParty reports whether userID is the expert or the client on this session.
func (s *Session) IsParty(userID string) bool {
	return userID == s.ExpertID || userID == s.ClientID
}

// Active reports whether the session still holds its slot.
func (s *Session) Active() bool {
	return s.Status == SessionPending || s.Status == SessionConfirmed
}

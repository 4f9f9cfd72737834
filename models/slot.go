package models

import "time"

// DateLayout is the calendar-date wire format used across the API ("YYYY-MM-DD").
const DateLayout = "2006-01-02"

// SlotKind describes what a slot offers.
type SlotKind string

const (
	SlotFree    SlotKind = "free"
	SlotPaid    SlotKind = "paid"
	SlotBlocked SlotKind = "blocked" // reserved by the expert, never bookable
)

// RecurrencePattern describes how a recurring slot template repeats.
type RecurrencePattern string

const (
	RecurrenceNone    RecurrencePattern = "none"
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
)

// AvailabilitySlot is a concrete, dated unit of an expert's offered availability.
// Start and End are minutes from midnight in the expert's local timezone
// (e.g., 540 for 9:00 AM); the timezone itself lives on AvailabilitySettings.
type AvailabilitySlot struct {
	ID              string            `bson:"id" json:"id"`
	ExpertID        string            `bson:"expertId" json:"expertId"`
	Date            string            `bson:"date" json:"date"` // "YYYY-MM-DD"
	Start           int               `bson:"start" json:"start"`
	End             int               `bson:"end" json:"end"`
	Kind            SlotKind          `bson:"kind" json:"kind"`
	Price           float64           `bson:"price" json:"price"` // 0 when Kind is free
	IsBooked        bool              `bson:"isBooked" json:"isBooked"`
	BookedSessionID string            `bson:"bookedSessionId,omitempty" json:"bookedSessionId,omitempty"`
	IsRecurring     bool              `bson:"isRecurring" json:"isRecurring"`
	Recurrence      RecurrencePattern `bson:"recurrence" json:"recurrence"`
	RecurUntil      string            `bson:"recurUntil,omitempty" json:"recurUntil,omitempty"`
	Notes           string            `bson:"notes,omitempty" json:"notes,omitempty"`
	Version         int               `bson:"version" json:"version"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// DurationMinutes is derived; a slot never stores a duration that disagrees
// with its bounds.
func (s *AvailabilitySlot) DurationMinutes() int {
	return s.End - s.Start
}

// Bookable reports whether a new session may claim this slot.
func (s *AvailabilitySlot) Bookable() bool {
	return s.Kind != SlotBlocked && !s.IsBooked
}

// StartsAt resolves the slot's wall-clock start into an absolute instant in loc.
func (s *AvailabilitySlot) StartsAt(loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, s.Date, loc)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(s.Start) * time.Minute), nil
}

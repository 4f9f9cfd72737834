package models

import "time"

// Default availability settings applied on an expert's first activity.
const (
	DefaultFreeSessionDuration = 30  // minutes
	DefaultPaidDuration        = 60  // minutes
	DefaultPaidPrice           = 50.0
	DefaultBufferMinutes       = 15
	DefaultAdvanceBookingDays  = 60
	DefaultTimezone            = "UTC"
)

// AvailabilitySettings holds an expert's booking defaults. One document per
// expert, created lazily and never deleted.
type AvailabilitySettings struct {
	ExpertID            string    `bson:"expertId" json:"expertId"`
	OffersFreeSessions  bool      `bson:"offersFreeSessions" json:"offersFreeSessions"`
	FreeSessionDuration int       `bson:"freeSessionDuration" json:"freeSessionDuration"`
	DefaultPaidDuration int       `bson:"defaultPaidDuration" json:"defaultPaidDuration"`
	DefaultPaidPrice    float64   `bson:"defaultPaidPrice" json:"defaultPaidPrice"`
	Timezone            string    `bson:"timezone" json:"timezone"` // IANA name, e.g. "Africa/Nairobi"
	BufferMinutes       int       `bson:"bufferMinutes" json:"bufferMinutes"`
	AdvanceBookingDays  int       `bson:"advanceBookingDays" json:"advanceBookingDays"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DefaultSettings returns the settings document materialized for an expert
// with no prior availability activity.
func DefaultSettings(expertID string) AvailabilitySettings {
	now := time.Now()
	return AvailabilitySettings{
		ExpertID:            expertID,
		OffersFreeSessions:  true,
		FreeSessionDuration: DefaultFreeSessionDuration,
		DefaultPaidDuration: DefaultPaidDuration,
		DefaultPaidPrice:    DefaultPaidPrice,
		Timezone:            DefaultTimezone,
		BufferMinutes:       DefaultBufferMinutes,
		AdvanceBookingDays:  DefaultAdvanceBookingDays,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// Location resolves the expert's timezone, falling back to UTC when the
// stored name is empty or unknown.
func (s *AvailabilitySettings) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

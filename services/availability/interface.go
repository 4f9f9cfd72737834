package availability

import (
	"context"

	settingsRepo "growthyari/database/repository/settings"
	slotRepo "growthyari/database/repository/slot"
	"growthyari/models"
)

// AvailabilityService manages an expert's slots and availability settings.
type AvailabilityService interface {
	// ListSlots returns an expert's slots ordered chronologically by date
	// then start time, optionally bounded by [fromDate, toDate] and filtered
	// to bookable slots.
	ListSlots(ctx context.Context, expertID, fromDate, toDate string, availableOnly bool) ([]models.AvailabilitySlot, error)
	// CreateSlot validates and persists a slot; a recurring template is
	// expanded into concrete dated instances. Returns every created slot,
	// the base first.
	CreateSlot(ctx context.Context, actor models.Principal, slot models.AvailabilitySlot) ([]models.AvailabilitySlot, error)
	// DeleteSlot removes an unbooked slot owned by the actor.
	DeleteSlot(ctx context.Context, actor models.Principal, slotID string) error

	GetSettings(ctx context.Context, expertID string) (*models.AvailabilitySettings, error)
	UpdateSettings(ctx context.Context, actor models.Principal, settings models.AvailabilitySettings) (*models.AvailabilitySettings, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Slots    slotRepo.SlotRepository
	Settings settingsRepo.SettingsRepository
}

package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	slotRepo "growthyari/database/repository/slot"
	"growthyari/faults"
	"growthyari/models"
	"growthyari/utils"

	"go.uber.org/zap"
)

// minutesPerDay bounds slot times; Start and End are minutes from midnight.
const minutesPerDay = 24 * 60

func (s *DefaultAvailabilityService) ListSlots(ctx context.Context, expertID, fromDate, toDate string, availableOnly bool) ([]models.AvailabilitySlot, error) {
	if err := validateDateBound(fromDate); err != nil {
		return nil, err
	}
	if err := validateDateBound(toDate); err != nil {
		return nil, err
	}
	return s.Slots.ListByExpert(ctx, expertID, fromDate, toDate, availableOnly)
}

func (s *DefaultAvailabilityService) CreateSlot(ctx context.Context, actor models.Principal, slot models.AvailabilitySlot) ([]models.AvailabilitySlot, error) {
	if actor.UserID != slot.ExpertID {
		return nil, faults.Policyf("only the slot's expert may create availability")
	}

	settings, err := s.Settings.GetOrCreate(ctx, slot.ExpertID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if err := validateNewSlot(&slot, settings); err != nil {
		return nil, err
	}

	slot.IsBooked = false
	slot.BookedSessionID = ""
	slot.Version = 1

	var instances []models.AvailabilitySlot
	if slot.IsRecurring {
		last, err := recurrenceHorizon(&slot, settings)
		if err != nil {
			return nil, err
		}
		instances = ExpandOccurrences(slot, last)
	} else {
		slot.Recurrence = models.RecurrenceNone
		slot.RecurUntil = ""
	}

	created := append([]models.AvailabilitySlot{slot}, instances...)
	ids, err := s.Slots.CreateMany(ctx, created)
	if err != nil {
		return nil, fmt.Errorf("failed to create slots: %w", err)
	}
	for i := range created {
		created[i].ID = ids[i]
	}

	utils.GetLogger().Info("availability slots created",
		zap.String("expertId", slot.ExpertID),
		zap.Int("count", len(created)),
	)
	return created, nil
}

func (s *DefaultAvailabilityService) DeleteSlot(ctx context.Context, actor models.Principal, slotID string) error {
	slot, err := s.Slots.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrNotFound) {
			return faults.NotFoundf("slot %s not found", slotID)
		}
		return err
	}
	if slot.ExpertID != actor.UserID {
		return faults.Policyf("only the slot's expert may delete it")
	}

	if err := s.Slots.Delete(ctx, actor.UserID, slotID); err != nil {
		switch {
		case errors.Is(err, slotRepo.ErrSlotBooked):
			return faults.Conflictf("slot %s is booked and cannot be deleted", slotID)
		case errors.Is(err, slotRepo.ErrNotFound):
			return faults.NotFoundf("slot %s not found", slotID)
		default:
			return err
		}
	}
	return nil
}

func (s *DefaultAvailabilityService) GetSettings(ctx context.Context, expertID string) (*models.AvailabilitySettings, error) {
	return s.Settings.GetOrCreate(ctx, expertID)
}

func (s *DefaultAvailabilityService) UpdateSettings(ctx context.Context, actor models.Principal, settings models.AvailabilitySettings) (*models.AvailabilitySettings, error) {
	if actor.UserID != settings.ExpertID {
		return nil, faults.Policyf("only the owning expert may update settings")
	}
	if settings.FreeSessionDuration <= 0 || settings.DefaultPaidDuration <= 0 {
		return nil, faults.Validationf("session durations must be positive")
	}
	if settings.DefaultPaidPrice < 0 {
		return nil, faults.Validationf("default price must not be negative")
	}
	if settings.BufferMinutes < 0 {
		return nil, faults.Validationf("buffer minutes must not be negative")
	}
	if settings.AdvanceBookingDays <= 0 {
		return nil, faults.Validationf("advance booking window must be positive")
	}
	if settings.Timezone != "" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			return nil, faults.Validationf("unknown timezone %q", settings.Timezone)
		}
	}

	// Settings are a soft singleton: make sure the document exists, then
	// overwrite the mutable fields.
	if _, err := s.Settings.GetOrCreate(ctx, settings.ExpertID); err != nil {
		return nil, err
	}
	if err := s.Settings.Update(ctx, &settings); err != nil {
		return nil, err
	}
	return s.Settings.GetOrCreate(ctx, settings.ExpertID)
}

func validateDateBound(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return faults.Validationf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return nil
}

func validateNewSlot(slot *models.AvailabilitySlot, settings *models.AvailabilitySettings) error {
	day, err := time.Parse(models.DateLayout, slot.Date)
	if err != nil {
		return faults.Validationf("invalid date %q, expected YYYY-MM-DD", slot.Date)
	}

	if slot.Start < 0 || slot.End > minutesPerDay {
		return faults.Validationf("slot times must fall within one day")
	}
	if slot.End <= slot.Start {
		return faults.Validationf("slot end must be after start")
	}

	switch slot.Kind {
	case models.SlotFree:
		if slot.Price != 0 {
			return faults.Validationf("a free slot must have price 0")
		}
	case models.SlotPaid:
		if slot.Price < 0 {
			return faults.Validationf("price must not be negative")
		}
	case models.SlotBlocked:
		slot.Price = 0
	default:
		return faults.Validationf("unknown slot kind %q", slot.Kind)
	}

	// "Not in the past" is judged on the expert's own calendar.
	today, err := time.ParseInLocation(models.DateLayout, time.Now().In(settings.Location()).Format(models.DateLayout), time.UTC)
	if err != nil {
		return err
	}
	if day.Before(today) {
		return faults.Validationf("slot date %s is in the past", slot.Date)
	}

	horizon := today.AddDate(0, 0, settings.AdvanceBookingDays)
	if day.After(horizon) {
		return faults.Validationf("slot date %s is beyond the %d-day booking window", slot.Date, settings.AdvanceBookingDays)
	}

	if slot.IsRecurring {
		switch slot.Recurrence {
		case models.RecurrenceDaily, models.RecurrenceWeekly, models.RecurrenceMonthly:
		default:
			return faults.Validationf("recurring slot requires a daily, weekly or monthly pattern")
		}
		if slot.RecurUntil != "" {
			if _, err := time.Parse(models.DateLayout, slot.RecurUntil); err != nil {
				return faults.Validationf("invalid recurUntil %q, expected YYYY-MM-DD", slot.RecurUntil)
			}
		}
	}
	return nil
}

// recurrenceHorizon resolves the inclusive last date for expansion: the
// template's recurUntil capped by the expert's advance-booking window.
func recurrenceHorizon(slot *models.AvailabilitySlot, settings *models.AvailabilitySettings) (time.Time, error) {
	today, err := time.Parse(models.DateLayout, time.Now().In(settings.Location()).Format(models.DateLayout))
	if err != nil {
		return time.Time{}, err
	}
	last := today.AddDate(0, 0, settings.AdvanceBookingDays)

	if slot.RecurUntil != "" {
		until, err := time.Parse(models.DateLayout, slot.RecurUntil)
		if err != nil {
			return time.Time{}, faults.Validationf("invalid recurUntil %q, expected YYYY-MM-DD", slot.RecurUntil)
		}
		if until.Before(last) {
			last = until
		}
	}
	return last, nil
}

package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	schedulerRepo "growthyari/database/repository/scheduler"
	"growthyari/faults"
	"growthyari/models"
	"growthyari/utils"
)

func (s *DefaultSchedulingService) Book(ctx context.Context, actor models.Principal, req BookRequest) (*models.Session, error) {
	if req.Title == "" {
		return nil, faults.Validationf("session title is required")
	}

	slot, err := s.Repo.GetSlotByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, schedulerRepo.ErrSlotNotFound) {
			return nil, faults.NotFoundf("slot %s not found", req.SlotID)
		}
		return nil, err
	}
	if slot.ExpertID != req.ExpertID {
		return nil, faults.Validationf("slot %s does not belong to expert %s", req.SlotID, req.ExpertID)
	}
	if actor.UserID == slot.ExpertID {
		return nil, faults.Policyf("an expert cannot book their own slot")
	}
	if slot.Kind == models.SlotBlocked {
		return nil, faults.Conflictf("slot %s is blocked", req.SlotID)
	}
	if slot.IsBooked {
		return nil, faults.Conflictf("slot %s is already booked", req.SlotID)
	}

	settings, err := s.Settings.GetOrCreate(ctx, slot.ExpertID)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings for expert %s: %w", slot.ExpertID, err)
	}

	// A disabled free offering does not invalidate existing free slots, but
	// new bookings against them are rejected.
	if slot.Kind == models.SlotFree && !settings.OffersFreeSessions {
		return nil, faults.Policyf("expert %s does not currently offer free sessions", slot.ExpertID)
	}

	scheduledAt, err := slot.StartsAt(settings.Location())
	if err != nil {
		return nil, faults.Validationf("slot %s has an unreadable date: %v", slot.ID, err)
	}

	// Buffer check: the expert's required idle gap on both sides of the
	// requested interval must be free of other non-cancelled sessions.
	buffer := time.Duration(settings.BufferMinutes) * time.Minute
	windowStart := scheduledAt.Add(-buffer)
	windowEnd := scheduledAt.Add(time.Duration(slot.DurationMinutes()) * time.Minute).Add(buffer)
	busy, err := s.Repo.HasOverlappingSession(ctx, slot.ExpertID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to check buffer window: %w", err)
	}
	if busy {
		return nil, faults.Conflictf("slot %s violates the expert's %d-minute buffer", slot.ID, settings.BufferMinutes)
	}

	now := time.Now()
	session := &models.Session{
		ID:              uuid.New().String(),
		ExpertID:        slot.ExpertID,
		ClientID:        actor.UserID,
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: slot.DurationMinutes(),
		Price:           slot.Price,
		ScheduledAt:     scheduledAt,
		Status:          models.SessionPending,
		SourceSlotID:    slot.ID,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.Repo.BookSlotTransactionally(ctx, slot, session); err != nil {
		if errors.Is(err, schedulerRepo.ErrSlotTaken) {
			return nil, faults.Conflictf("slot no longer available")
		}
		return nil, err
	}

	utils.GetLogger().Info("session booked",
		zap.String("sessionId", session.ID),
		zap.String("slotId", slot.ID),
		zap.String("expertId", slot.ExpertID),
		zap.String("clientId", actor.UserID),
	)
	return session, nil
}

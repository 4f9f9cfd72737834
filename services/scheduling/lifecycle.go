package scheduling

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	schedulerRepo "growthyari/database/repository/scheduler"
	"growthyari/faults"
	"growthyari/models"
	"growthyari/utils"
)

func (s *DefaultSchedulingService) Confirm(ctx context.Context, actor models.Principal, sessionID string) (*models.Session, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ExpertID != actor.UserID {
		return nil, faults.Policyf("only the session's expert may confirm it")
	}

	link := MeetingLink(session.ID)
	if err := s.Repo.MarkConfirmed(ctx, session.ID, link); err != nil {
		if errors.Is(err, schedulerRepo.ErrNoTransition) {
			return nil, s.classifyTransitionFailure(ctx, sessionID, "confirm")
		}
		return nil, err
	}

	session.Status = models.SessionConfirmed
	session.MeetingLink = link

	s.publishConfirmed(ctx, session)
	return session, nil
}

func (s *DefaultSchedulingService) Decline(ctx context.Context, actor models.Principal, sessionID, reason string) (*models.Session, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.ExpertID != actor.UserID {
		return nil, faults.Policyf("only the session's expert may decline it")
	}
	if reason == "" {
		reason = "declined by expert"
	}

	if err := s.Repo.MarkDeclined(ctx, session.ID, session.SourceSlotID, reason); err != nil {
		if errors.Is(err, schedulerRepo.ErrNoTransition) {
			return nil, s.classifyTransitionFailure(ctx, sessionID, "decline")
		}
		return nil, err
	}

	return s.finishCancellation(ctx, session, reason)
}

func (s *DefaultSchedulingService) Cancel(ctx context.Context, actor models.Principal, sessionID, reason string) (*models.Session, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsParty(actor.UserID) {
		return nil, faults.Policyf("only a session party may cancel it")
	}
	if reason == "" {
		reason = "cancelled"
	}

	if err := s.Repo.MarkCancelled(ctx, session.ID, session.SourceSlotID, reason); err != nil {
		if errors.Is(err, schedulerRepo.ErrNoTransition) {
			return nil, s.classifyTransitionFailure(ctx, sessionID, "cancel")
		}
		return nil, err
	}

	return s.finishCancellation(ctx, session, reason)
}

func (s *DefaultSchedulingService) Complete(ctx context.Context, actor models.Principal, sessionID string) (*models.Session, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsParty(actor.UserID) {
		return nil, faults.Policyf("only a session party may complete it")
	}

	// Completion is idempotent: the sweep and a direct call may race.
	if session.Status == models.SessionCompleted {
		return session, nil
	}
	if session.Status != models.SessionConfirmed {
		return nil, faults.InvalidStatef("cannot complete session in status %s", session.Status)
	}
	if time.Now().Before(session.EndsAt()) {
		return nil, faults.InvalidStatef("session %s has not reached its scheduled end", sessionID)
	}

	if err := s.Repo.MarkCompleted(ctx, session.ID); err != nil {
		if errors.Is(err, schedulerRepo.ErrNoTransition) {
			// Someone else completed or cancelled it between read and write.
			return s.loadSession(ctx, sessionID)
		}
		return nil, err
	}

	session.Status = models.SessionCompleted
	return session, nil
}

func (s *DefaultSchedulingService) CompleteDue(ctx context.Context) (int, error) {
	due, err := s.Repo.ListDueForCompletion(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, session := range due {
		if err := s.Repo.MarkCompleted(ctx, session.ID); err != nil {
			if errors.Is(err, schedulerRepo.ErrNoTransition) {
				continue // another sweeper won the race
			}
			return completed, err
		}
		completed++
	}

	if completed > 0 {
		utils.GetLogger().Info("completed due sessions", zap.Int("count", completed))
	}
	return completed, nil
}

func (s *DefaultSchedulingService) GetSession(ctx context.Context, actor models.Principal, sessionID string) (*models.Session, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsParty(actor.UserID) {
		return nil, faults.Policyf("session %s does not involve you", sessionID)
	}
	return session, nil
}

func (s *DefaultSchedulingService) ListSessions(ctx context.Context, actor models.Principal, asRole string, status models.SessionStatus) ([]models.Session, error) {
	filter := schedulerRepo.SessionFilter{Status: status}
	if asRole == models.RoleExpert {
		filter.ExpertID = actor.UserID
	} else {
		filter.ClientID = actor.UserID
	}
	return s.Repo.ListSessions(ctx, filter)
}

func (s *DefaultSchedulingService) loadSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.Repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, schedulerRepo.ErrSessionNotFound) {
			return nil, faults.NotFoundf("session %s not found", sessionID)
		}
		return nil, err
	}
	return session, nil
}

// classifyTransitionFailure distinguishes "already handled" from "invalid
// request" after a conditional transition matched nothing.
func (s *DefaultSchedulingService) classifyTransitionFailure(ctx context.Context, sessionID, verb string) error {
	session, err := s.Repo.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, schedulerRepo.ErrSessionNotFound) {
			return faults.NotFoundf("session %s not found", sessionID)
		}
		return err
	}
	return faults.InvalidStatef("cannot %s session in status %s", verb, session.Status)
}

// finishCancellation reflects the committed transition (the repository
// released the slot in the same transaction) and notifies collaborators.
func (s *DefaultSchedulingService) finishCancellation(ctx context.Context, session *models.Session, reason string) (*models.Session, error) {
	session.Status = models.SessionCancelled
	session.CancellationReason = reason

	s.publishCancelled(ctx, session, reason)
	return session, nil
}

func (s *DefaultSchedulingService) publishConfirmed(ctx context.Context, session *models.Session) {
	if s.Events == nil {
		return
	}
	ev := models.SessionConfirmedEvent{
		SessionID:   session.ID,
		ExpertID:    session.ExpertID,
		ClientID:    session.ClientID,
		MeetingLink: session.MeetingLink,
		ScheduledAt: session.ScheduledAt,
	}
	if err := s.Events.SessionConfirmed(ctx, ev); err != nil {
		utils.GetLogger().Warn("failed to publish confirmed event",
			zap.String("sessionId", session.ID), zap.Error(err))
	}

	reminder := models.ReminderPayload{
		SessionID: session.ID,
		ExpertID:  session.ExpertID,
		ClientID:  session.ClientID,
		Title:     session.Title,
		FireAt:    session.ScheduledAt,
	}
	if err := s.Events.ScheduleReminder(ctx, reminder); err != nil {
		utils.GetLogger().Warn("failed to schedule reminder",
			zap.String("sessionId", session.ID), zap.Error(err))
	}
}

func (s *DefaultSchedulingService) publishCancelled(ctx context.Context, session *models.Session, reason string) {
	if s.Events == nil {
		return
	}
	ev := models.SessionCancelledEvent{SessionID: session.ID, Reason: reason}
	if err := s.Events.SessionCancelled(ctx, ev); err != nil {
		utils.GetLogger().Warn("failed to publish cancelled event",
			zap.String("sessionId", session.ID), zap.Error(err))
	}
}

package scheduling

import (
	"context"
	"sync"
	"time"

	schedulerRepo "growthyari/database/repository/scheduler"
	"growthyari/models"
)

// fakeSchedulerRepo mirrors the Mongo repository's conditional-write
// semantics over in-memory maps so races and lost updates behave the same.
type fakeSchedulerRepo struct {
	mu       sync.Mutex
	slots    map[string]*models.AvailabilitySlot
	sessions map[string]*models.Session

	// cancelErr fails the next cancel transaction before it mutates
	// anything, mimicking a transient storage outage.
	cancelErr error
}

func newFakeSchedulerRepo() *fakeSchedulerRepo {
	return &fakeSchedulerRepo{
		slots:    make(map[string]*models.AvailabilitySlot),
		sessions: make(map[string]*models.Session),
	}
}

func (r *fakeSchedulerRepo) addSlot(slot models.AvailabilitySlot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot.ID] = &slot
}

func (r *fakeSchedulerRepo) addSession(session models.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = &session
}

func (r *fakeSchedulerRepo) slotSnapshot(slotID string) models.AvailabilitySlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.slots[slotID]
}

func (r *fakeSchedulerRepo) sessionSnapshot(sessionID string) models.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.sessions[sessionID]
}

func (r *fakeSchedulerRepo) GetSlotByID(_ context.Context, slotID string) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return nil, schedulerRepo.ErrSlotNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSchedulerRepo) BookSlotTransactionally(_ context.Context, slot *models.AvailabilitySlot, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.slots[slot.ID]
	if !ok || stored.IsBooked || stored.Kind == models.SlotBlocked || stored.Version != slot.Version {
		return schedulerRepo.ErrSlotTaken
	}
	stored.IsBooked = true
	stored.BookedSessionID = session.ID
	stored.Version++
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *fakeSchedulerRepo) GetSessionByID(_ context.Context, sessionID string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil, schedulerRepo.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSchedulerRepo) ListSessions(_ context.Context, filter schedulerRepo.SessionFilter) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Session
	for _, s := range r.sessions {
		if filter.ExpertID != "" && s.ExpertID != filter.ExpertID {
			continue
		}
		if filter.ClientID != "" && s.ClientID != filter.ClientID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *fakeSchedulerRepo) HasOverlappingSession(_ context.Context, expertID string, windowStart, windowEnd time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ExpertID != expertID || s.Status == models.SessionCancelled {
			continue
		}
		if s.ScheduledAt.Before(windowEnd) && s.EndsAt().After(windowStart) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSchedulerRepo) transition(sessionID string, from []models.SessionStatus, apply func(*models.Session)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return schedulerRepo.ErrNoTransition
	}
	for _, status := range from {
		if s.Status == status {
			apply(s)
			s.Version++
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return schedulerRepo.ErrNoTransition
}

func (r *fakeSchedulerRepo) MarkConfirmed(_ context.Context, sessionID, meetingLink string) error {
	return r.transition(sessionID, []models.SessionStatus{models.SessionPending}, func(s *models.Session) {
		s.Status = models.SessionConfirmed
		s.MeetingLink = meetingLink
	})
}

// cancelAndRelease applies the status write and the slot release together
// under one lock, the way the Mongo repository pairs them in a transaction:
// a failure applies neither mutation.
func (r *fakeSchedulerRepo) cancelAndRelease(sessionID, slotID, reason string, from []models.SessionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelErr != nil {
		err := r.cancelErr
		r.cancelErr = nil
		return err
	}
	s, ok := r.sessions[sessionID]
	if !ok {
		return schedulerRepo.ErrNoTransition
	}
	allowed := false
	for _, status := range from {
		if s.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return schedulerRepo.ErrNoTransition
	}
	s.Status = models.SessionCancelled
	s.CancellationReason = reason
	s.Version++
	s.UpdatedAt = time.Now()
	if slot, ok := r.slots[slotID]; ok && slot.BookedSessionID == sessionID {
		slot.IsBooked = false
		slot.BookedSessionID = ""
		slot.Version++
	}
	return nil
}

func (r *fakeSchedulerRepo) MarkDeclined(_ context.Context, sessionID, slotID, reason string) error {
	return r.cancelAndRelease(sessionID, slotID, reason, []models.SessionStatus{models.SessionPending})
}

func (r *fakeSchedulerRepo) MarkCancelled(_ context.Context, sessionID, slotID, reason string) error {
	return r.cancelAndRelease(sessionID, slotID, reason, []models.SessionStatus{models.SessionPending, models.SessionConfirmed})
}

func (r *fakeSchedulerRepo) MarkCompleted(_ context.Context, sessionID string) error {
	return r.transition(sessionID, []models.SessionStatus{models.SessionConfirmed}, func(s *models.Session) {
		s.Status = models.SessionCompleted
	})
}

func (r *fakeSchedulerRepo) ListDueForCompletion(_ context.Context, now time.Time) ([]models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Session
	for _, s := range r.sessions {
		if s.Status == models.SessionConfirmed && !s.EndsAt().After(now) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSchedulerRepo) EnsureIndexes() error { return nil }

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[string]models.AvailabilitySettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[string]models.AvailabilitySettings)}
}

func (r *fakeSettingsRepo) GetOrCreate(_ context.Context, expertID string) (*models.AvailabilitySettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[expertID]
	if !ok {
		s = models.DefaultSettings(expertID)
		r.settings[expertID] = s
	}
	return &s, nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, settings *models.AvailabilitySettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[settings.ExpertID] = *settings
	return nil
}

func (r *fakeSettingsRepo) EnsureIndexes() error { return nil }

// recordingPublisher captures emitted events for assertions.
type recordingPublisher struct {
	mu        sync.Mutex
	confirmed []models.SessionConfirmedEvent
	cancelled []models.SessionCancelledEvent
	reminders []models.ReminderPayload
}

func (p *recordingPublisher) SessionConfirmed(_ context.Context, ev models.SessionConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmed = append(p.confirmed, ev)
	return nil
}

func (p *recordingPublisher) SessionCancelled(_ context.Context, ev models.SessionCancelledEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, ev)
	return nil
}

func (p *recordingPublisher) ScheduleReminder(_ context.Context, payload models.ReminderPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reminders = append(p.reminders, payload)
	return nil
}

func newTestService() (*DefaultSchedulingService, *fakeSchedulerRepo, *fakeSettingsRepo, *recordingPublisher) {
	repo := newFakeSchedulerRepo()
	settings := newFakeSettingsRepo()
	events := &recordingPublisher{}
	svc := &DefaultSchedulingService{Repo: repo, Settings: settings, Events: events}
	return svc, repo, settings, events
}

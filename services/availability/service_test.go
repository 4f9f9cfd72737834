package availability

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	slotRepo "growthyari/database/repository/slot"
	"growthyari/faults"
	"growthyari/models"
)

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]models.AvailabilitySlot
	seq   int
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[string]models.AvailabilitySlot)}
}

func (r *fakeSlotRepo) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	ids, err := r.CreateMany(ctx, []models.AvailabilitySlot{*slot})
	if err != nil {
		return err
	}
	slot.ID = ids[0]
	return nil
}

func (r *fakeSlotRepo) CreateMany(_ context.Context, slots []models.AvailabilitySlot) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(slots))
	for _, s := range slots {
		r.seq++
		s.ID = fmt.Sprintf("slot-%d", r.seq)
		r.slots[s.ID] = s
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (r *fakeSlotRepo) GetByID(_ context.Context, slotID string) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return nil, slotRepo.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSlotRepo) ListByExpert(_ context.Context, expertID, fromDate, toDate string, availableOnly bool) ([]models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AvailabilitySlot
	for _, s := range r.slots {
		if s.ExpertID != expertID {
			continue
		}
		if fromDate != "" && s.Date < fromDate {
			continue
		}
		if toDate != "" && s.Date > toDate {
			continue
		}
		if availableOnly && !s.Bookable() {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Start < out[j].Start
	})
	return out, nil
}

func (r *fakeSlotRepo) Delete(_ context.Context, expertID, slotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok || s.ExpertID != expertID {
		return slotRepo.ErrNotFound
	}
	if s.IsBooked {
		return slotRepo.ErrSlotBooked
	}
	delete(r.slots, slotID)
	return nil
}

func (r *fakeSlotRepo) EnsureIndexes() error { return nil }

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

func newTestService() (*DefaultAvailabilityService, *fakeSlotRepo, *fakeSettingsRepo) {
	slots := newFakeSlotRepo()
	settings := newFakeSettingsRepo()
	return &DefaultAvailabilityService{Slots: slots, Settings: settings}, slots, settings
}

func expert(id string) models.Principal {
	return models.Principal{UserID: id, Role: models.RoleExpert}
}

// dateFromToday keeps test slots inside the validation window regardless of
// when the test runs.
func dateFromToday(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(models.DateLayout)
}

func TestCreateSlotSingle(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateSlot(context.Background(), expert("exp-1"), models.AvailabilitySlot{
		ExpertID: "exp-1",
		Date:     dateFromToday(1),
		Start:    540,
		End:      600,
		Kind:     models.SlotPaid,
		Price:    75,
	})

	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.NotEmpty(t, created[0].ID)
	assert.False(t, created[0].IsBooked)
	assert.Equal(t, 1, created[0].Version)
}

func TestCreateSlotWeeklyRecurrenceExpands(t *testing.T) {
	svc, _, _ := newTestService()

	base := dateFromToday(1)
	created, err := svc.CreateSlot(context.Background(), expert("exp-1"), models.AvailabilitySlot{
		ExpertID:    "exp-1",
		Date:        base,
		Start:       540,
		End:         600,
		Kind:        models.SlotFree,
		IsRecurring: true,
		Recurrence:  models.RecurrenceWeekly,
		RecurUntil:  dateFromToday(22),
	})

	require.NoError(t, err)
	// Base slot plus three weekly occurrences.
	require.Len(t, created, 4)
	assert.Equal(t, base, created[0].Date)
	assert.True(t, created[0].IsRecurring)
	for i := 1; i < 4; i++ {
		assert.Equal(t, dateFromToday(1+7*i), created[i].Date)
		assert.False(t, created[i].IsRecurring)
		assert.NotEmpty(t, created[i].ID)
	}
}

func TestCreateSlotRecurrenceCappedByAdvanceWindow(t *testing.T) {
	svc, _, settings := newTestService()
	narrow := models.DefaultSettings("exp-1")
	narrow.AdvanceBookingDays = 10
	require.NoError(t, settings.Update(context.Background(), &narrow))

	created, err := svc.CreateSlot(context.Background(), expert("exp-1"), models.AvailabilitySlot{
		ExpertID:    "exp-1",
		Date:        dateFromToday(1),
		Start:       540,
		End:         600,
		Kind:        models.SlotPaid,
		Price:       40,
		IsRecurring: true,
		Recurrence:  models.RecurrenceWeekly,
		RecurUntil:  dateFromToday(60),
	})

	require.NoError(t, err)
	// Only the base and the one occurrence inside the 10-day window survive.
	require.Len(t, created, 2)
	assert.Equal(t, dateFromToday(8), created[1].Date)
}

func TestCreateSlotRejectsNonOwner(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateSlot(context.Background(), expert("someone-else"), models.AvailabilitySlot{
		ExpertID: "exp-1",
		Date:     dateFromToday(1),
		Start:    540,
		End:      600,
		Kind:     models.SlotPaid,
	})

	assert.Equal(t, faults.KindPolicy, faults.KindOf(err))
}

func TestCreateSlotValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	actor := expert("exp-1")

	cases := []struct {
		name string
		slot models.AvailabilitySlot
	}{
		{"end before start", models.AvailabilitySlot{ExpertID: "exp-1", Date: dateFromToday(1), Start: 600, End: 540, Kind: models.SlotPaid}},
		{"beyond one day", models.AvailabilitySlot{ExpertID: "exp-1", Date: dateFromToday(1), Start: 1400, End: 1500, Kind: models.SlotPaid}},
		{"free slot with price", models.AvailabilitySlot{ExpertID: "exp-1", Date: dateFromToday(1), Start: 540, End: 600, Kind: models.SlotFree, Price: 10}},
		{"negative price", models.AvailabilitySlot{ExpertID: "exp-1", Date: dateFromToday(1), Start: 540, End: 600, Kind: models.SlotPaid, Price: -5}},
		{"unknown kind", models.AvailabilitySlot{ExpertID: "exp-1", Date: dateFromToday(1), Start: 540, End: 600, Kind: "vip"}},
		{"past date", models.AvailabilitySlot{ExpertID: "exp-1", Date: dateFromToday(-2), Start: 540, End: 600, Kind: models.SlotPaid}},
		{"beyond booking window", models.AvailabilitySlot{ExpertID: "exp-1", Date: dateFromToday(90), Start: 540, End: 600, Kind: models.SlotPaid}},
		{"bad date format", models.AvailabilitySlot{ExpertID: "exp-1", Date: "01/02/2024", Start: 540, End: 600, Kind: models.SlotPaid}},
		{"recurring without pattern", models.AvailabilitySlot{ExpertID: "exp-1", Date: dateFromToday(1), Start: 540, End: 600, Kind: models.SlotPaid, IsRecurring: true}},
		{"recurring bad recurUntil", models.AvailabilitySlot{ExpertID: "exp-1", Date: dateFromToday(1), Start: 540, End: 600, Kind: models.SlotPaid, IsRecurring: true, Recurrence: models.RecurrenceDaily, RecurUntil: "soon"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSlot(ctx, actor, tc.slot)
			assert.Equal(t, faults.KindValidation, faults.KindOf(err))
		})
	}
}

func TestCreateSlotBlockedForcesZeroPrice(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateSlot(context.Background(), expert("exp-1"), models.AvailabilitySlot{
		ExpertID: "exp-1",
		Date:     dateFromToday(1),
		Start:    540,
		End:      600,
		Kind:     models.SlotBlocked,
		Price:    30,
	})

	require.NoError(t, err)
	assert.Zero(t, created[0].Price)
}

func TestListSlotsOrdersAndFilters(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	actor := expert("exp-1")

	for _, s := range []models.AvailabilitySlot{
		{ExpertID: "exp-1", Date: dateFromToday(2), Start: 540, End: 600, Kind: models.SlotPaid, Price: 20},
		{ExpertID: "exp-1", Date: dateFromToday(1), Start: 600, End: 660, Kind: models.SlotPaid, Price: 20},
		{ExpertID: "exp-1", Date: dateFromToday(1), Start: 540, End: 600, Kind: models.SlotBlocked},
	} {
		_, err := svc.CreateSlot(ctx, actor, s)
		require.NoError(t, err)
	}

	all, err := svc.ListSlots(ctx, "exp-1", "", "", false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, dateFromToday(1), all[0].Date)
	assert.Equal(t, 540, all[0].Start)

	available, err := svc.ListSlots(ctx, "exp-1", "", "", true)
	require.NoError(t, err)
	require.Len(t, available, 2)
	for _, s := range available {
		assert.True(t, s.Bookable())
	}
}

func TestListSlotsRejectsBadBounds(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ListSlots(context.Background(), "exp-1", "not-a-date", "", false)
	assert.Equal(t, faults.KindValidation, faults.KindOf(err))
}

func TestDeleteSlot(t *testing.T) {
	svc, slots, _ := newTestService()
	ctx := context.Background()
	actor := expert("exp-1")

	created, err := svc.CreateSlot(ctx, actor, models.AvailabilitySlot{
		ExpertID: "exp-1", Date: dateFromToday(1), Start: 540, End: 600, Kind: models.SlotPaid, Price: 20,
	})
	require.NoError(t, err)
	slotID := created[0].ID

	t.Run("non-owner rejected", func(t *testing.T) {
		err := svc.DeleteSlot(ctx, expert("intruder"), slotID)
		assert.Equal(t, faults.KindPolicy, faults.KindOf(err))
	})

	t.Run("booked slot conflicts", func(t *testing.T) {
		slots.mu.Lock()
		s := slots.slots[slotID]
		s.IsBooked = true
		slots.slots[slotID] = s
		slots.mu.Unlock()

		err := svc.DeleteSlot(ctx, actor, slotID)
		assert.Equal(t, faults.KindConflict, faults.KindOf(err))

		slots.mu.Lock()
		s = slots.slots[slotID]
		s.IsBooked = false
		slots.slots[slotID] = s
		slots.mu.Unlock()
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, svc.DeleteSlot(ctx, actor, slotID))
		err := svc.DeleteSlot(ctx, actor, slotID)
		assert.Equal(t, faults.KindNotFound, faults.KindOf(err))
	})
}

func TestGetSettingsMaterializesDefaults(t *testing.T) {
	svc, _, _ := newTestService()

	got, err := svc.GetSettings(context.Background(), "fresh-expert")
	require.NoError(t, err)
	assert.Equal(t, "fresh-expert", got.ExpertID)
	assert.True(t, got.OffersFreeSessions)
	assert.Equal(t, models.DefaultAdvanceBookingDays, got.AdvanceBookingDays)
	assert.Equal(t, models.DefaultTimezone, got.Timezone)
}

func TestUpdateSettings(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	t.Run("non-owner rejected", func(t *testing.T) {
		_, err := svc.UpdateSettings(ctx, expert("intruder"), models.AvailabilitySettings{ExpertID: "exp-1"})
		assert.Equal(t, faults.KindPolicy, faults.KindOf(err))
	})

	t.Run("validation", func(t *testing.T) {
		cases := []models.AvailabilitySettings{
			{ExpertID: "exp-1", FreeSessionDuration: 0, DefaultPaidDuration: 60, AdvanceBookingDays: 30},
			{ExpertID: "exp-1", FreeSessionDuration: 30, DefaultPaidDuration: 60, DefaultPaidPrice: -1, AdvanceBookingDays: 30},
			{ExpertID: "exp-1", FreeSessionDuration: 30, DefaultPaidDuration: 60, BufferMinutes: -5, AdvanceBookingDays: 30},
			{ExpertID: "exp-1", FreeSessionDuration: 30, DefaultPaidDuration: 60, AdvanceBookingDays: 0},
			{ExpertID: "exp-1", FreeSessionDuration: 30, DefaultPaidDuration: 60, AdvanceBookingDays: 30, Timezone: "Mars/Olympus"},
		}
		for _, s := range cases {
			_, err := svc.UpdateSettings(ctx, expert("exp-1"), s)
			assert.Equal(t, faults.KindValidation, faults.KindOf(err))
		}
	})

	t.Run("overwrites", func(t *testing.T) {
		updated, err := svc.UpdateSettings(ctx, expert("exp-1"), models.AvailabilitySettings{
			ExpertID:            "exp-1",
			OffersFreeSessions:  false,
			FreeSessionDuration: 20,
			DefaultPaidDuration: 45,
			DefaultPaidPrice:    120,
			Timezone:            "Africa/Nairobi",
			BufferMinutes:       10,
			AdvanceBookingDays:  30,
		})
		require.NoError(t, err)
		assert.False(t, updated.OffersFreeSessions)
		assert.Equal(t, 45, updated.DefaultPaidDuration)
		assert.Equal(t, "Africa/Nairobi", updated.Timezone)

		reread, err := svc.GetSettings(ctx, "exp-1")
		require.NoError(t, err)
		assert.Equal(t, 30, reread.AdvanceBookingDays)
	})
}

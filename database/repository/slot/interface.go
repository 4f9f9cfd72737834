// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"

	"growthyari/database"
	"growthyari/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SlotRepository defines data access for availability slots.
type SlotRepository interface {
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	CreateMany(ctx context.Context, slots []models.AvailabilitySlot) ([]string, error)
	GetByID(ctx context.Context, slotID string) (*models.AvailabilitySlot, error)
	// ListByExpert returns slots ordered by (date, start). Empty date bounds
	// mean an open range; availableOnly filters to bookable slots.
	ListByExpert(ctx context.Context, expertID, fromDate, toDate string, availableOnly bool) ([]models.AvailabilitySlot, error)
	// Delete removes a slot only while it is unbooked; a booked slot is
	// retained for audit and the call fails with ErrSlotBooked.
	Delete(ctx context.Context, expertID, slotID string) error
	EnsureIndexes() error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo() SlotRepository {
	return &mongoSlotRepo{
		coll: database.DB().Collection("availability_slots"),
	}
}

// File: database/repository/slot/crud.go
package slotRepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"growthyari/models"
)

func (r *mongoSlotRepo) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	now := time.Now()
	slot.CreatedAt = now
	slot.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, slot)
	return err
}

func (r *mongoSlotRepo) CreateMany(ctx context.Context, slots []models.AvailabilitySlot) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	docs := make([]interface{}, len(slots))
	ids := make([]string, len(slots))
	for i, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		slot.CreatedAt = now
		slot.UpdatedAt = now
		docs[i] = slot
		ids[i] = slot.ID
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *mongoSlotRepo) GetByID(ctx context.Context, slotID string) (*models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.AvailabilitySlot
	if err := r.coll.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &slot, nil
}

func (r *mongoSlotRepo) ListByExpert(ctx context.Context, expertID, fromDate, toDate string, availableOnly bool) ([]models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"expertId": expertID}
	if fromDate != "" || toDate != "" {
		dateRange := bson.M{}
		if fromDate != "" {
			dateRange["$gte"] = fromDate
		}
		if toDate != "" {
			dateRange["$lte"] = toDate
		}
		filter["date"] = dateRange
	}
	if availableOnly {
		filter["isBooked"] = false
		filter["kind"] = bson.M{"$ne": models.SlotBlocked}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	slots := []models.AvailabilitySlot{}
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoSlotRepo) Delete(ctx context.Context, expertID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Only an unbooked slot may be deleted; booked slots stay for audit.
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": slotID, "expertId": expertID, "isBooked": false})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		count, err := r.coll.CountDocuments(ctx, bson.M{"id": slotID, "expertId": expertID})
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrSlotBooked
		}
		return ErrNotFound
	}
	return nil
}

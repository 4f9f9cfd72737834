// File: database/repository/slot/indexes.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the availability_slots collection.
func (r *mongoSlotRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Primary query pattern: an expert's calendar ordered by date and start.
		{
			Keys:    bson.D{{Key: "expertId", Value: 1}, {Key: "date", Value: 1}, {Key: "start", Value: 1}},
			Options: options.Index().SetName("expert_date_start_idx"),
		},
		// Bookable-slot lookups filter on isBooked and kind.
		{
			Keys:    bson.D{{Key: "expertId", Value: 1}, {Key: "date", Value: 1}, {Key: "isBooked", Value: 1}},
			Options: options.Index().SetName("expert_date_booked_idx"),
		},
		// A session id may hold at most one slot; unique+sparse backs the
		// one-non-cancelled-session-per-slot guarantee at the storage layer.
		{
			Keys:    bson.D{{Key: "bookedSessionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true).SetName("unique_booked_session_idx"),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create slot indexes: %w", err)
	}
	return nil
}

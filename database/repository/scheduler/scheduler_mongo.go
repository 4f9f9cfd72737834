package schedulerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"growthyari/database"
	"growthyari/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSchedulerRepo implements SchedulerRepository using MongoDB.
type MongoSchedulerRepo struct {
	slotColl    *mongo.Collection
	sessionColl *mongo.Collection
}

// NewMongoSchedulerRepo constructs a new instance of MongoSchedulerRepo.
func NewMongoSchedulerRepo() SchedulerRepository {
	db := database.DB()
	return &MongoSchedulerRepo{
		slotColl:    db.Collection("availability_slots"),
		sessionColl: db.Collection("sessions"),
	}
}

// GetSlotByID retrieves a slot document by ID.
func (repo *MongoSchedulerRepo) GetSlotByID(ctx context.Context, slotID string) (*models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.AvailabilitySlot
	if err := repo.slotColl.FindOne(ctx, bson.M{"id": slotID}).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("error fetching slot with id %s: %w", slotID, err)
	}
	return &slot, nil
}

func (repo *MongoSchedulerRepo) GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var session models.Session
	if err := repo.sessionColl.FindOne(ctx, bson.M{"id": sessionID}).Decode(&session); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("error fetching session with id %s: %w", sessionID, err)
	}
	return &session, nil
}

func (repo *MongoSchedulerRepo) ListSessions(ctx context.Context, filter SessionFilter) ([]models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := bson.M{}
	if filter.ExpertID != "" {
		query["expertId"] = filter.ExpertID
	}
	if filter.ClientID != "" {
		query["clientId"] = filter.ClientID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "scheduledAt", Value: 1}})
	cursor, err := repo.sessionColl.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []models.Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// HasOverlappingSession checks for any non-cancelled session for the expert
// whose [scheduledAt, scheduledAt+duration) interval intersects the window.
// Cancelled sessions gave their slot back; everything else, completed
// included, still occupied the expert's time. The end instant is computed in
// the query via $expr.
func (repo *MongoSchedulerRepo) HasOverlappingSession(ctx context.Context, expertID string, windowStart, windowEnd time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"expertId": expertID,
		"status":   bson.M{"$ne": models.SessionCancelled},
		"$expr": bson.M{"$and": bson.A{
			bson.M{"$lt": bson.A{"$scheduledAt", windowEnd}},
			bson.M{"$gt": bson.A{
				bson.M{"$add": bson.A{"$scheduledAt", bson.M{"$multiply": bson.A{"$durationMinutes", 60000}}}},
				windowStart,
			}},
		}},
	}

	count, err := repo.sessionColl.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("error counting overlapping sessions for expert %s: %w", expertID, err)
	}
	return count > 0, nil
}

func (repo *MongoSchedulerRepo) ListDueForCompletion(ctx context.Context, now time.Time) ([]models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status": models.SessionConfirmed,
		"$expr": bson.M{"$lte": bson.A{
			bson.M{"$add": bson.A{"$scheduledAt", bson.M{"$multiply": bson.A{"$durationMinutes", 60000}}}},
			now,
		}},
	}

	cursor, err := repo.sessionColl.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []models.Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

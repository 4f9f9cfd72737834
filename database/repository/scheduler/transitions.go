package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"growthyari/models"
)

// transition applies a guarded status update. The filter pins the allowed
// source states so two racing transition requests resolve to one winner.
func (repo *MongoSchedulerRepo) transition(
	ctx context.Context,
	sessionID string,
	from []models.SessionStatus,
	set bson.M,
) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set["updatedAt"] = time.Now()
	filter := bson.M{"id": sessionID, "status": bson.M{"$in": from}}
	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}

	res, err := repo.sessionColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to transition session %s: %w", sessionID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNoTransition
	}
	return nil
}

func (repo *MongoSchedulerRepo) MarkConfirmed(ctx context.Context, sessionID, meetingLink string) error {
	return repo.transition(ctx, sessionID,
		[]models.SessionStatus{models.SessionPending},
		bson.M{"status": models.SessionConfirmed, "meetingLink": meetingLink},
	)
}

func (repo *MongoSchedulerRepo) MarkCompleted(ctx context.Context, sessionID string) error {
	return repo.transition(ctx, sessionID,
		[]models.SessionStatus{models.SessionConfirmed},
		bson.M{"status": models.SessionCompleted},
	)
}

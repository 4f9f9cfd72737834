package schedulerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"growthyari/models"
)

// BookSlotTransactionally is the one place where double-booking is
// structurally prevented. The session insert and the conditional slot update
// commit together or not at all; the filter carries the version the caller
// read, so a concurrent booking that bumped the slot first makes this update
// match nothing and the transaction aborts with ErrSlotTaken.
func (repo *MongoSchedulerRepo) BookSlotTransactionally(
	ctx context.Context,
	slot *models.AvailabilitySlot,
	session *models.Session,
) error {
	client := repo.slotColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := repo.sessionColl.InsertOne(sc, session); err != nil {
			return fmt.Errorf("insert session failed: %w", err)
		}

		filter := bson.M{
			"id":       slot.ID,
			"isBooked": false,
			"kind":     bson.M{"$ne": models.SlotBlocked},
			"version":  slot.Version,
		}
		update := bson.M{
			"$set": bson.M{
				"isBooked":        true,
				"bookedSessionId": session.ID,
				"updatedAt":       time.Now(),
			},
			"$inc": bson.M{"version": 1},
		}

		res, err := repo.slotColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("reserve slot failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrSlotTaken
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}

// cancelAndRelease moves the session to cancelled and re-opens its slot in
// one multi-document transaction. Pairing the two writes means a transient
// failure leaves the session in its source state and a retry re-runs both;
// a committed cancellation can never strand the slot as booked. The slot
// update is conditional on the session still holding it, so re-running
// against an already-released slot only touches the session.
func (repo *MongoSchedulerRepo) cancelAndRelease(
	ctx context.Context,
	sessionID, slotID, reason string,
	from []models.SessionStatus,
) error {
	client := repo.sessionColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{"id": sessionID, "status": bson.M{"$in": from}}
		update := bson.M{
			"$set": bson.M{
				"status":             models.SessionCancelled,
				"cancellationReason": reason,
				"updatedAt":          time.Now(),
			},
			"$inc": bson.M{"version": 1},
		}
		res, err := repo.sessionColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("cancel session failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNoTransition
		}

		slotUpdate := bson.M{
			"$set":   bson.M{"isBooked": false, "updatedAt": time.Now()},
			"$unset": bson.M{"bookedSessionId": ""},
			"$inc":   bson.M{"version": 1},
		}
		if _, err := repo.slotColl.UpdateOne(sc, bson.M{"id": slotID, "bookedSessionId": sessionID}, slotUpdate); err != nil {
			return fmt.Errorf("release slot failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return fmt.Errorf("cancellation transaction failed: %w", err)
	}

	return nil
}

func (repo *MongoSchedulerRepo) MarkDeclined(ctx context.Context, sessionID, slotID, reason string) error {
	return repo.cancelAndRelease(ctx, sessionID, slotID, reason,
		[]models.SessionStatus{models.SessionPending})
}

func (repo *MongoSchedulerRepo) MarkCancelled(ctx context.Context, sessionID, slotID, reason string) error {
	return repo.cancelAndRelease(ctx, sessionID, slotID, reason,
		[]models.SessionStatus{models.SessionPending, models.SessionConfirmed})
}

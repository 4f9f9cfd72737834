// File: database/repository/settings/settings_mongo.go
package settingsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"growthyari/models"
)

func (r *mongoSettingsRepo) GetOrCreate(ctx context.Context, expertID string) (*models.AvailabilitySettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var settings models.AvailabilitySettings
	err := r.coll.FindOne(ctx, bson.M{"expertId": expertID}).Decode(&settings)
	if err == nil {
		return &settings, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// First activity for this expert: materialize defaults. $setOnInsert keeps
	// this race-safe when two requests arrive together.
	defaults := models.DefaultSettings(expertID)
	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"expertId": expertID}, bson.M{"$setOnInsert": defaults}, opts); err != nil {
		return nil, fmt.Errorf("failed to materialize default settings for expert %s: %w", expertID, err)
	}

	if err := r.coll.FindOne(ctx, bson.M{"expertId": expertID}).Decode(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *mongoSettingsRepo) Update(ctx context.Context, settings *models.AvailabilitySettings) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	settings.UpdatedAt = time.Now()
	update := bson.M{"$set": bson.M{
		"offersFreeSessions":  settings.OffersFreeSessions,
		"freeSessionDuration": settings.FreeSessionDuration,
		"defaultPaidDuration": settings.DefaultPaidDuration,
		"defaultPaidPrice":    settings.DefaultPaidPrice,
		"timezone":            settings.Timezone,
		"bufferMinutes":       settings.BufferMinutes,
		"advanceBookingDays":  settings.AdvanceBookingDays,
		"updatedAt":           settings.UpdatedAt,
	}}

	opts := options.Update().SetUpsert(true)
	if _, err := r.coll.UpdateOne(ctx, bson.M{"expertId": settings.ExpertID}, update, opts); err != nil {
		return fmt.Errorf("failed to update settings for expert %s: %w", settings.ExpertID, err)
	}
	return nil
}

// EnsureIndexes creates the necessary indexes on the availability_settings collection.
func (r *mongoSettingsRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expertId", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_expert_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create settings indexes: %w", err)
	}
	return nil
}

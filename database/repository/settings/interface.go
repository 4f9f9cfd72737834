// File: database/repository/settings/interface.go
package settingsRepo

import (
	"context"

	"growthyari/database"
	"growthyari/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SettingsRepository defines data access for per-expert availability settings.
type SettingsRepository interface {
	// GetOrCreate returns the expert's settings, materializing defaults on
	// first activity. Settings are never deleted.
	GetOrCreate(ctx context.Context, expertID string) (*models.AvailabilitySettings, error)
	Update(ctx context.Context, settings *models.AvailabilitySettings) error
	EnsureIndexes() error
}

type mongoSettingsRepo struct {
	coll *mongo.Collection
}

// NewMongoSettingsRepo constructs a new MongoDB SettingsRepository.
func NewMongoSettingsRepo() SettingsRepository {
	return &mongoSettingsRepo{
		coll: database.DB().Collection("availability_settings"),
	}
}

package settingsRepo

import (
	"context"
	"fmt"
	"time"

	"cleanly/database"
	"cleanly/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	serviceAreaID = "service_area"
	tiersID       = "tiers"
)

type mongoSettingsRepo struct {
	coll *mongo.Collection
}

// NewMongoSettingsRepo returns a SettingsRepository backed by the settings collection.
func NewMongoSettingsRepo() SettingsRepository {
	return &mongoSettingsRepo{coll: database.Collection("settings")}
}

func (r *mongoSettingsRepo) load(ctx context.Context, id string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(out); err != nil {
		return fmt.Errorf("failed to load %s settings: %w", id, database.NotFound(err))
	}
	return nil
}

func (r *mongoSettingsRepo) save(ctx context.Context, id string, doc interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, opts); err != nil {
		return fmt.Errorf("failed to save %s settings: %w", id, err)
	}
	return nil
}

func (r *mongoSettingsRepo) GetServiceArea(ctx context.Context) (*models.ServiceAreaConfig, error) {
	var cfg models.ServiceAreaConfig
	if err := r.load(ctx, serviceAreaID, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *mongoSettingsRepo) SaveServiceArea(ctx context.Context, cfg *models.ServiceAreaConfig) error {
	return r.save(ctx, serviceAreaID, cfg)
}

func (r *mongoSettingsRepo) GetTiers(ctx context.Context) (*models.TierConfig, error) {
	var cfg models.TierConfig
	if err := r.load(ctx, tiersID, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *mongoSettingsRepo) SaveTiers(ctx context.Context, cfg *models.TierConfig) error {
	return r.save(ctx, tiersID, cfg)
}

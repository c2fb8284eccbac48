package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SettingRepository stores named global values in the Data collection.
type SettingRepository interface {
	GetFloat(ctx context.Context, name string) (float64, error)
	Set(ctx context.Context, name string, value float64) error
}

type mongoSettingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSettingRepository(cfg *config.Config) SettingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSettingRepository{
		cfg:        cfg,
		collection: db.Collection(SettingsCollection),
	}
}

func (r *mongoSettingRepository) GetFloat(ctx context.Context, name string) (float64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var setting model.Setting
	if err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&setting); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, bookingserrors.ErrSettingNotFound
		}
		return 0, fmt.Errorf("failed to read setting %s: %w", name, err)
	}
	return setting.Value, nil
}

func (r *mongoSettingRepository) Set(ctx context.Context, name string, value float64) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$set": bson.M{"value": value}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", name, err)
	}
	return nil
}

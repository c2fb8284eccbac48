package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hotelbooking/internal/bookings/repository"
	"hotelbooking/internal/migrations/mongo/validators"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"
)

var (
	BookingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "hotel_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_date", Value: 1},
			{Key: "end_date", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "start_date", Value: 1},
		}},
	}

	// Locks left behind by a crashed process expire on their own.
	BookingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	SettingsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
)

type collectionDef struct {
	Indexes   []mongo.IndexModel
	Validator bson.M
}

// RunMigration creates the collections owned by the booking service with
// their schema validators and indexes, then seeds the price-to-point ratio
// unless one is already stored.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger, priceToPoint float64) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	collections := map[string]collectionDef{
		repository.BookingsCollection: {
			Indexes:   BookingsIndexes,
			Validator: validators.BookingValidator,
		},
		repository.LocksCollection: {
			Indexes:   BookingLocksIndexes,
			Validator: validators.BookingLockValidator,
		},
		repository.SettingsCollection: {
			Indexes:   SettingsIndexes,
			Validator: validators.SettingValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, log, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, log, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	if err := seedPriceToPoint(ctx, db, log, priceToPoint); err != nil {
		return fmt.Errorf("failed to seed %s: %w", model.SettingPriceToPoint, err)
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, log *logger.Logger, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, log *logger.Logger, name string, models []mongo.IndexModel) error {
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "count", len(models))
	return nil
}

func seedPriceToPoint(ctx context.Context, db *mongo.Database, log *logger.Logger, value float64) error {
	result, err := db.Collection(repository.SettingsCollection).UpdateOne(ctx,
		bson.M{"name": model.SettingPriceToPoint},
		bson.M{"$setOnInsert": bson.M{"name": model.SettingPriceToPoint, "value": value}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return err
	}
	if result.UpsertedCount > 0 {
		log.Info("Seeded setting", "name", model.SettingPriceToPoint, "value", value)
	}
	return nil
}

package main

import (
	"context"
	"time"

	mongoMigration "hotelbooking/internal/migrations/mongo"
	"hotelbooking/pkg/config"
)

const JobName = "mongo-migration"

func main() {
	cfg := config.Load(JobName)
	cfg.SetMongo()
	cfg.Log.Info("Starting Mongo migration job")

	if err := migrateMongo(cfg); err != nil {
		cfg.GracefulShutdown()
		cfg.Log.Fatal("Migration failed", "error", err)
	}

	cfg.GracefulShutdown()
	cfg.Log.Info("Migration completed successfully")
}

func migrateMongo(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return mongoMigration.RunMigration(ctx, db, cfg.Log, cfg.PriceToPointSeed)
}

package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookingLockRepository provides operations for advisory locks
type BookingLockRepository interface {
	// Create returns ErrLockHeld if a lock with the same id already exists.
	Create(ctx context.Context, lock *model.BookingLock) error
	// Delete removes the lock only if it is still owned by owner.
	Delete(ctx context.Context, lockID, owner string) error
	// DeleteExpired removes the lock if its expiry has passed.
	DeleteExpired(ctx context.Context, lockID string, now time.Time) (bool, error)
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LocksCollection),
	}
}

func (r *mongoBookingLockRepository) Create(ctx context.Context, lock *model.BookingLock) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	lock.CreatedAt = time.Now().UTC()
	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrLockHeld
		}
		return fmt.Errorf("failed to create booking lock: %w", err)
	}
	return nil
}

func (r *mongoBookingLockRepository) Delete(ctx context.Context, lockID, owner string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "owner": owner}); err != nil {
		return fmt.Errorf("failed to delete booking lock: %w", err)
	}
	return nil
}

func (r *mongoBookingLockRepository) DeleteExpired(ctx context.Context, lockID string, now time.Time) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "expires_at": bson.M{"$lte": now}})
	if err != nil {
		return false, fmt.Errorf("failed to delete expired booking lock: %w", err)
	}
	return result.DeletedCount > 0, nil
}

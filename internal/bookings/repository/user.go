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
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	// AddPoints atomically increments the user's point balance.
	AddPoints(ctx context.Context, id string, points int64) error
	// ConsumeInventoryItem decrements one unit of a held redeemable and drops
	// the entry once it reaches zero. Returns ErrInventoryItemNotFound when
	// the user holds none.
	ConsumeInventoryItem(ctx context.Context, id, redeemableID string) error
}

type mongoUserRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoUserRepository(cfg *config.Config) UserRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoUserRepository{
		cfg:        cfg,
		collection: db.Collection(UsersCollection),
	}
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) AddPoints(ctx context.Context, id string, points int64) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"point": points}})
	if err != nil {
		return fmt.Errorf("failed to add points: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrUserNotFound
	}
	return nil
}

func (r *mongoUserRepository) ConsumeInventoryItem(ctx context.Context, id, redeemableID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return err
	}

	filter := bson.M{
		"_id": oid,
		"inventory": bson.M{"$elemMatch": bson.M{
			"redeemable_id": redeemableID,
			"count":         bson.M{"$gt": 0},
		}},
	}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"inventory.$.count": -1}})
	if err != nil {
		return fmt.Errorf("failed to consume inventory item: %w", err)
	}
	if result.MatchedCount == 0 {
		return bookingserrors.ErrInventoryItemNotFound
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"inventory": bson.M{"redeemable_id": redeemableID, "count": bson.M{"$lte": 0}}}},
	)
	if err != nil {
		return fmt.Errorf("failed to prune inventory: %w", err)
	}
	return nil
}

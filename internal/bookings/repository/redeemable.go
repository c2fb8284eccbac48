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

type RedeemableRepository interface {
	FindByID(ctx context.Context, id string) (*model.Redeemable, error)
}

type mongoRedeemableRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRedeemableRepository(cfg *config.Config) RedeemableRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRedeemableRepository{
		cfg:        cfg,
		collection: db.Collection(RedeemablesCollection),
	}
}

func (r *mongoRedeemableRepository) FindByID(ctx context.Context, id string) (*model.Redeemable, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var redeemable model.Redeemable
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&redeemable); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrRedeemableNotFound
		}
		return nil, fmt.Errorf("failed to find redeemable: %w", err)
	}
	return &redeemable, nil
}

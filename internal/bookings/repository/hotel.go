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

// HotelRepository is the read side of the hotel catalog.
type HotelRepository interface {
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
	// GetByHotel returns the room catalog of a hotel, in stored order.
	GetByHotel(ctx context.Context, hotelID string) ([]model.RoomType, error)
}

type mongoHotelRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoHotelRepository(cfg *config.Config) HotelRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoHotelRepository{
		cfg:        cfg,
		collection: db.Collection(HotelsCollection),
	}
}

func (r *mongoHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var hotel model.Hotel
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&hotel); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to find hotel: %w", err)
	}
	return &hotel, nil
}

func (r *mongoHotelRepository) GetByHotel(ctx context.Context, hotelID string) ([]model.RoomType, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	oid, err := objectID(hotelID)
	if err != nil {
		return nil, err
	}

	var hotel struct {
		Rooms []model.RoomType `bson:"rooms"`
	}
	opts := options.FindOne().SetProjection(bson.M{"rooms": 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&hotel); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrHotelNotFound
		}
		return nil, fmt.Errorf("failed to load room catalog: %w", err)
	}
	if hotel.Rooms == nil {
		return []model.RoomType{}, nil
	}
	return hotel.Rooms, nil
}

//go:build integration

package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/internal/bookings/repository"
	mongoMigration "hotelbooking/internal/migrations/mongo"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const testDatabase = "hotelbooking_integration"

// newMongoConfig connects to MONGO_URI (default localhost), runs the
// migrations on a scratch database and drops it when the test ends.
func newMongoConfig(t *testing.T) (*config.Config, *mongo.Database) {
	t.Helper()
	cfg := config.Default(logger.Discard())
	if uri := os.Getenv(config.EnvMongoURI); uri != "" {
		cfg.MongoURI = uri
	}
	cfg.MongoDatabaseName = testDatabase

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	require.NoError(t, err)
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("MongoDB not reachable at %s: %v", cfg.MongoURI, err)
	}
	cfg.Client.Mongo = client

	db := client.Database(testDatabase)
	require.NoError(t, db.Drop(ctx))
	require.NoError(t, mongoMigration.RunMigration(ctx, db, cfg.Log, 100))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return cfg, db
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestMongoBookingRepository(t *testing.T) {
	cfg, _ := newMongoConfig(t)
	ctx := context.Background()
	repo := repository.NewMongoBookingRepository(cfg)
	hotelID := primitive.NewObjectID().Hex()
	userID := primitive.NewObjectID().Hex()

	booking := &model.Booking{
		HotelID:   hotelID,
		UserID:    userID,
		Status:    model.StatusReserved,
		Price:     200,
		StartDate: day(10),
		EndDate:   day(12),
		Rooms:     []model.RoomRequest{{RoomType: "standard", Count: 2}},
	}
	require.NoError(t, repo.Create(ctx, booking))
	require.NotEmpty(t, booking.ID)

	found, err := repo.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.Rooms, found.Rooms)
	assert.True(t, found.StartDate.Equal(day(10)))

	overlapping, err := repo.FindOverlapping(ctx, hotelID, day(12), day(13), "")
	require.NoError(t, err)
	assert.Len(t, overlapping, 1)

	overlapping, err = repo.FindOverlapping(ctx, hotelID, day(12), day(13), booking.ID)
	require.NoError(t, err)
	assert.Empty(t, overlapping)

	overlapping, err = repo.FindOverlapping(ctx, hotelID, day(13), day(14), "")
	require.NoError(t, err)
	assert.Empty(t, overlapping)

	require.NoError(t, repo.TransitionStatus(ctx, booking.ID, model.StatusReserved, model.StatusCheckedIn))
	err = repo.TransitionStatus(ctx, booking.ID, model.StatusReserved, model.StatusCheckedIn)
	assert.ErrorIs(t, err, bookingserrors.ErrStatusMismatch)

	count, err := repo.Count(ctx, model.BookingFilter{HotelID: hotelID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, repo.Delete(ctx, booking.ID))
	_, err = repo.FindByID(ctx, booking.ID)
	assert.ErrorIs(t, err, bookingserrors.ErrNotFound)

	_, err = repo.FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, bookingserrors.ErrInvalidID)
}

func TestMongoBookingLockRepository(t *testing.T) {
	cfg, _ := newMongoConfig(t)
	ctx := context.Background()
	locks := repository.NewMongoBookingLockRepository(cfg)

	lock := &model.BookingLock{ID: "booking_lock_h1", Owner: "a", ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, locks.Create(ctx, lock))
	assert.ErrorIs(t, locks.Create(ctx, &model.BookingLock{ID: "booking_lock_h1", Owner: "b", ExpiresAt: time.Now()}), bookingserrors.ErrLockHeld)

	require.NoError(t, locks.Delete(ctx, "booking_lock_h1", "b"))
	removed, err := locks.DeleteExpired(ctx, "booking_lock_h1", time.Now())
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = locks.DeleteExpired(ctx, "booking_lock_h1", time.Now().Add(2*time.Minute))
	require.NoError(t, err)
	assert.True(t, removed)
}

func TestMongoUserAndSettingRepositories(t *testing.T) {
	cfg, db := newMongoConfig(t)
	ctx := context.Background()
	couponID := primitive.NewObjectID().Hex()
	oid := primitive.NewObjectID()

	_, err := db.Collection(repository.UsersCollection).InsertOne(ctx, bson.M{
		"_id":       oid,
		"name":      "Guest",
		"email":     "guest@example.com",
		"role":      "user",
		"point":     0,
		"inventory": bson.A{bson.M{"redeemable_id": couponID, "count": 1}},
	})
	require.NoError(t, err)

	users := repository.NewMongoUserRepository(cfg)
	require.NoError(t, users.AddPoints(ctx, oid.Hex(), 3))
	require.NoError(t, users.ConsumeInventoryItem(ctx, oid.Hex(), couponID))
	assert.ErrorIs(t, users.ConsumeInventoryItem(ctx, oid.Hex(), couponID), bookingserrors.ErrInventoryItemNotFound)

	user, err := users.FindByID(ctx, oid.Hex())
	require.NoError(t, err)
	assert.Equal(t, int64(3), user.Point)
	assert.Empty(t, user.Inventory)

	settings := repository.NewMongoSettingRepository(cfg)
	ratio, err := settings.GetFloat(ctx, model.SettingPriceToPoint)
	require.NoError(t, err)
	assert.Equal(t, 100.0, ratio)

	require.NoError(t, settings.Set(ctx, model.SettingPriceToPoint, 25))
	ratio, err = settings.GetFloat(ctx, model.SettingPriceToPoint)
	require.NoError(t, err)
	assert.Equal(t, 25.0, ratio)
}

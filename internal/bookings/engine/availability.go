// Package engine decides whether a booking request fits a hotel's remaining
// room inventory and what it costs. It reads through the RoomCatalog and
// BookingLedger ports and never writes.
package engine

import (
	"context"
	"time"

	"hotelbooking/pkg/model"

	"golang.org/x/sync/errgroup"
)

// RoomCatalog reads a hotel's room-type definitions.
type RoomCatalog interface {
	GetByHotel(ctx context.Context, hotelID string) ([]model.RoomType, error)
}

// BookingLedger finds the reserved and checked-in bookings of a hotel whose
// inclusive window overlaps [start, end], skipping excludeID when set.
type BookingLedger interface {
	FindOverlapping(ctx context.Context, hotelID string, start, end time.Time, excludeID string) ([]*model.Booking, error)
}

// Snapshot is the catalog of a hotel together with the remaining units per
// room type for one date window.
type Snapshot struct {
	Catalog   []model.RoomType
	Remaining map[string]int
}

type AvailabilityCalculator struct {
	catalog RoomCatalog
	ledger  BookingLedger
}

func NewAvailabilityCalculator(catalog RoomCatalog, ledger BookingLedger) *AvailabilityCalculator {
	return &AvailabilityCalculator{catalog: catalog, ledger: ledger}
}

// Snapshot loads the catalog and the conflict set concurrently and folds
// them into remaining capacity.
func (c *AvailabilityCalculator) Snapshot(ctx context.Context, hotelID string, start, end time.Time, excludeID string) (*Snapshot, error) {
	var (
		catalog   []model.RoomType
		conflicts []*model.Booking
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = c.catalog.GetByHotel(gctx, hotelID)
		return err
	})
	g.Go(func() error {
		var err error
		conflicts, err = c.ledger.FindOverlapping(gctx, hotelID, start, end, excludeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{
		Catalog:   catalog,
		Remaining: Remaining(catalog, conflicts, excludeID),
	}, nil
}

// RemainingCapacity returns the units left per room type over the window.
// Types outside the catalog are absent.
func (c *AvailabilityCalculator) RemainingCapacity(ctx context.Context, hotelID string, start, end time.Time, excludeID string) (map[string]int, error) {
	snapshot, err := c.Snapshot(ctx, hotelID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	return snapshot.Remaining, nil
}

// Availability lists remaining units in catalog order.
func (c *AvailabilityCalculator) Availability(ctx context.Context, hotelID string, start, end time.Time) ([]model.RoomAvailability, error) {
	snapshot, err := c.Snapshot(ctx, hotelID, start, end, "")
	if err != nil {
		return nil, err
	}

	result := make([]model.RoomAvailability, 0, len(snapshot.Catalog))
	for _, rt := range snapshot.Catalog {
		result = append(result, model.RoomAvailability{
			Type:        rt.RoomType,
			RemainCount: snapshot.Remaining[rt.RoomType],
		})
	}
	return result, nil
}

// Remaining subtracts the room usage of active conflicting bookings from each
// type's maxCount. Completed bookings and excludeID never count.
func Remaining(catalog []model.RoomType, conflicts []*model.Booking, excludeID string) map[string]int {
	used := make(map[string]int)
	for _, b := range conflicts {
		if b == nil || !b.Status.IsActive() {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		for _, room := range b.Rooms {
			used[room.RoomType] += room.Count
		}
	}

	remaining := make(map[string]int, len(catalog))
	for _, rt := range catalog {
		if _, seen := remaining[rt.RoomType]; seen {
			continue
		}
		remaining[rt.RoomType] = rt.MaxCount - used[rt.RoomType]
	}
	return remaining
}

package engine

import (
	"context"
	"math"
	"time"

	"hotelbooking/pkg/model"
)

const (
	ReasonRoomsRequired   = "rooms required"
	ReasonInvalidRoomType = "invalid room type"
	ReasonNotEnoughRoom   = "not enough room"
)

const day = 24 * time.Hour

// Quote is the outcome of pricing a request. When Valid is false, Reason
// names the failed constraint and RoomType the offending type, if any.
type Quote struct {
	Valid     bool    `json:"valid"`
	Price     float64 `json:"price,omitempty"`
	Nights    int     `json:"nights,omitempty"`
	Reason    string  `json:"reason,omitempty"`
	RoomType  string  `json:"roomType,omitempty"`
	Remaining int     `json:"remaining,omitempty"`
}

type PriceQuoteEngine struct {
	availability *AvailabilityCalculator
}

func NewPriceQuoteEngine(availability *AvailabilityCalculator) *PriceQuoteEngine {
	return &PriceQuoteEngine{availability: availability}
}

// Quote checks the requested rooms against remaining capacity over the whole
// window and prices them. Storage failures are returned as errors; business
// rejections come back as an invalid Quote.
func (e *PriceQuoteEngine) Quote(ctx context.Context, hotelID string, start, end time.Time, rooms []model.RoomRequest, excludeID string) (*Quote, error) {
	if len(rooms) == 0 {
		return &Quote{Reason: ReasonRoomsRequired}, nil
	}

	snapshot, err := e.availability.Snapshot(ctx, hotelID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	return PriceSnapshot(snapshot, start, end, rooms), nil
}

// PriceSnapshot is the pure part of Quote. Repeated room types are summed
// before being compared with capacity.
func PriceSnapshot(snapshot *Snapshot, start, end time.Time, rooms []model.RoomRequest) *Quote {
	if len(rooms) == 0 {
		return &Quote{Reason: ReasonRoomsRequired}
	}

	prices := make(map[string]float64, len(snapshot.Catalog))
	for _, rt := range snapshot.Catalog {
		if _, seen := prices[rt.RoomType]; !seen {
			prices[rt.RoomType] = rt.Price
		}
	}

	requested := make(map[string]int, len(rooms))
	order := make([]string, 0, len(rooms))
	for _, room := range rooms {
		if _, ok := prices[room.RoomType]; !ok {
			return &Quote{Reason: ReasonInvalidRoomType, RoomType: room.RoomType}
		}
		if _, seen := requested[room.RoomType]; !seen {
			order = append(order, room.RoomType)
		}
		requested[room.RoomType] += room.Count
	}

	perNight := 0.0
	for _, roomType := range order {
		count := requested[roomType]
		if remaining := snapshot.Remaining[roomType]; remaining < count {
			return &Quote{Reason: ReasonNotEnoughRoom, RoomType: roomType, Remaining: max(remaining, 0)}
		}
		perNight += float64(count) * prices[roomType]
	}

	nights := Nights(start, end)
	return &Quote{
		Valid:  true,
		Price:  perNight * float64(nights),
		Nights: nights,
	}
}

// Nights is the day difference between start and end, rounded up.
func Nights(start, end time.Time) int {
	diff := end.Sub(start)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(float64(diff) / float64(day)))
}

// ApplyDiscount returns the price after taking off fraction d, and the amount
// taken off.
func ApplyDiscount(price, d float64) (final float64, discount float64) {
	discount = price * d
	return price - discount, discount
}

package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingserrors "hotelbooking/internal/bookings/errors"
	"hotelbooking/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	rooms map[string][]model.RoomType
	err   error
}

func (f *fakeCatalog) GetByHotel(_ context.Context, hotelID string) ([]model.RoomType, error) {
	if f.err != nil {
		return nil, f.err
	}
	rooms, ok := f.rooms[hotelID]
	if !ok {
		return nil, bookingserrors.ErrHotelNotFound
	}
	return rooms, nil
}

type fakeLedger struct {
	bookings []*model.Booking
	err      error
}

func (f *fakeLedger) FindOverlapping(_ context.Context, hotelID string, start, end time.Time, excludeID string) ([]*model.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []*model.Booking{}
	for _, b := range f.bookings {
		if b.HotelID != hotelID || b.ID == excludeID || !b.Status.IsActive() {
			continue
		}
		if !b.StartDate.After(end) && !b.EndDate.Before(start) {
			out = append(out, b)
		}
	}
	return out, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const hotelID = "65f1c0d2a1b2c3d4e5f60718"

func testCatalog() *fakeCatalog {
	return &fakeCatalog{rooms: map[string][]model.RoomType{
		hotelID: {
			{RoomType: "standard", MaxCount: 2, Price: 100},
			{RoomType: "deluxe", MaxCount: 2, Price: 250},
			{RoomType: "suite", MaxCount: 0, Price: 900},
		},
	}}
}

func TestRemaining(t *testing.T) {
	catalog := testCatalog().rooms[hotelID]
	conflicts := []*model.Booking{
		{ID: "a", Status: model.StatusReserved, Rooms: []model.RoomRequest{{RoomType: "standard", Count: 1}, {RoomType: "deluxe", Count: 2}}},
		{ID: "b", Status: model.StatusCheckedIn, Rooms: []model.RoomRequest{{RoomType: "standard", Count: 1}}},
		{ID: "c", Status: model.StatusCompleted, Rooms: []model.RoomRequest{{RoomType: "standard", Count: 5}}},
		{ID: "d", Status: model.StatusReserved, Rooms: []model.RoomRequest{{RoomType: "penthouse", Count: 1}}},
	}

	tests := []struct {
		name      string
		excludeID string
		expected  map[string]int
	}{
		{"all active count", "", map[string]int{"standard": 0, "deluxe": 0, "suite": 0}},
		{"excluded booking frees its rooms", "a", map[string]int{"standard": 1, "deluxe": 2, "suite": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Remaining(catalog, conflicts, tt.excludeID))
		})
	}
}

func TestAvailabilityCalculator_Availability(t *testing.T) {
	ledger := &fakeLedger{bookings: []*model.Booking{
		{ID: "a", HotelID: hotelID, Status: model.StatusReserved, StartDate: date(2024, 3, 1), EndDate: date(2024, 3, 2),
			Rooms: []model.RoomRequest{{RoomType: "deluxe", Count: 1}}},
	}}
	calc := NewAvailabilityCalculator(testCatalog(), ledger)

	got, err := calc.Availability(context.Background(), hotelID, date(2024, 3, 2), date(2024, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, []model.RoomAvailability{
		{Type: "standard", RemainCount: 2},
		{Type: "deluxe", RemainCount: 1},
		{Type: "suite", RemainCount: 0},
	}, got)

	got, err = calc.Availability(context.Background(), hotelID, date(2024, 3, 3), date(2024, 3, 4))
	require.NoError(t, err)
	assert.Equal(t, 2, got[1].RemainCount)
}

func TestAvailabilityCalculator_PropagatesErrors(t *testing.T) {
	ctx := context.Background()

	calc := NewAvailabilityCalculator(testCatalog(), &fakeLedger{})
	_, err := calc.RemainingCapacity(ctx, "65f1c0d2a1b2c3d4e5f60799", date(2024, 1, 1), date(2024, 1, 2), "")
	assert.ErrorIs(t, err, bookingserrors.ErrHotelNotFound)

	boom := errors.New("ledger down")
	calc = NewAvailabilityCalculator(testCatalog(), &fakeLedger{err: boom})
	_, err = calc.RemainingCapacity(ctx, hotelID, date(2024, 1, 1), date(2024, 1, 2), "")
	assert.ErrorIs(t, err, boom)
}

func TestNights(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{"one day", date(2024, 1, 1), date(2024, 1, 2), 1},
		{"three days", date(2024, 1, 1), date(2024, 1, 4), 3},
		{"partial day rounds up", date(2024, 1, 1), date(2024, 1, 2).Add(time.Hour), 2},
		{"across month end", date(2024, 2, 28), date(2024, 3, 1), 2},
		{"empty window", date(2024, 1, 1), date(2024, 1, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Nights(tt.start, tt.end))
		})
	}
}

func TestPriceQuoteEngine_Quote(t *testing.T) {
	ledger := &fakeLedger{bookings: []*model.Booking{
		{ID: "held", HotelID: hotelID, Status: model.StatusReserved, StartDate: date(2024, 3, 1), EndDate: date(2024, 3, 3),
			Rooms: []model.RoomRequest{{RoomType: "deluxe", Count: 2}}},
	}}
	quotes := NewPriceQuoteEngine(NewAvailabilityCalculator(testCatalog(), ledger))
	start, end := date(2024, 3, 1), date(2024, 3, 3)

	tests := []struct {
		name      string
		rooms     []model.RoomRequest
		excludeID string
		expected  *Quote
	}{
		{
			name:     "no rooms",
			rooms:    nil,
			expected: &Quote{Reason: ReasonRoomsRequired},
		},
		{
			name:     "unknown type",
			rooms:    []model.RoomRequest{{RoomType: "penthouse", Count: 1}},
			expected: &Quote{Reason: ReasonInvalidRoomType, RoomType: "penthouse"},
		},
		{
			name:     "fully booked type",
			rooms:    []model.RoomRequest{{RoomType: "deluxe", Count: 1}},
			expected: &Quote{Reason: ReasonNotEnoughRoom, RoomType: "deluxe"},
		},
		{
			name:     "zero capacity type",
			rooms:    []model.RoomRequest{{RoomType: "suite", Count: 1}},
			expected: &Quote{Reason: ReasonNotEnoughRoom, RoomType: "suite"},
		},
		{
			name:     "repeated type is summed",
			rooms:    []model.RoomRequest{{RoomType: "standard", Count: 1}, {RoomType: "standard", Count: 2}},
			expected: &Quote{Reason: ReasonNotEnoughRoom, RoomType: "standard", Remaining: 2},
		},
		{
			name:     "priced per night",
			rooms:    []model.RoomRequest{{RoomType: "standard", Count: 2}},
			expected: &Quote{Valid: true, Price: 400, Nights: 2},
		},
		{
			name:      "self exclusion frees own rooms",
			rooms:     []model.RoomRequest{{RoomType: "deluxe", Count: 2}, {RoomType: "standard", Count: 1}},
			excludeID: "held",
			expected:  &Quote{Valid: true, Price: 1200, Nights: 2},
		},
		{
			name:      "self exclusion still caps at maxCount",
			rooms:     []model.RoomRequest{{RoomType: "deluxe", Count: 3}},
			excludeID: "held",
			expected:  &Quote{Reason: ReasonNotEnoughRoom, RoomType: "deluxe", Remaining: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := quotes.Quote(context.Background(), hotelID, start, end, tt.rooms, tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPriceQuoteEngine_Deterministic(t *testing.T) {
	quotes := NewPriceQuoteEngine(NewAvailabilityCalculator(testCatalog(), &fakeLedger{}))
	rooms := []model.RoomRequest{{RoomType: "standard", Count: 1}, {RoomType: "deluxe", Count: 1}}

	first, err := quotes.Quote(context.Background(), hotelID, date(2024, 1, 1), date(2024, 1, 4), rooms, "")
	require.NoError(t, err)
	second, err := quotes.Quote(context.Background(), hotelID, date(2024, 1, 1), date(2024, 1, 4), rooms, "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1050.0, first.Price)
}

func TestApplyDiscount(t *testing.T) {
	final, discount := ApplyDiscount(1000, 0.1)
	assert.InDelta(t, 900.0, final, 1e-9)
	assert.InDelta(t, 100.0, discount, 1e-9)

	final, discount = ApplyDiscount(1000, 0)
	assert.Equal(t, 1000.0, final)
	assert.Equal(t, 0.0, discount)
}

type fakeRedeemables map[string]*model.Redeemable

func (f fakeRedeemables) FindByID(_ context.Context, id string) (*model.Redeemable, error) {
	if r, ok := f[id]; ok {
		return r, nil
	}
	return nil, bookingserrors.ErrRedeemableNotFound
}

func TestCouponValidator_Validate(t *testing.T) {
	now := date(2024, 6, 1)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	store := fakeRedeemables{
		"live":    {ID: "live", Type: model.RedeemableCoupon, Discount: 0.1, Expire: &future},
		"forever": {ID: "forever", Type: model.RedeemableCoupon, Discount: 0.2},
		"expired": {ID: "expired", Type: model.RedeemableCoupon, Discount: 0.1, Expire: &past},
		"gift":    {ID: "gift", Type: model.RedeemableGift},
		"broken":  {ID: "broken", Type: model.RedeemableCoupon, Discount: 1.5},
		"unowned": {ID: "unowned", Type: model.RedeemableCoupon, Discount: 0.1},
	}
	user := &model.User{ID: "u1", Inventory: []model.InventoryItem{
		{RedeemableID: "live", Count: 1},
		{RedeemableID: "forever", Count: 2},
		{RedeemableID: "expired", Count: 1},
		{RedeemableID: "gift", Count: 1},
		{RedeemableID: "broken", Count: 1},
	}}

	validator := NewCouponValidator(store)
	validator.now = func() time.Time { return now }

	tests := []struct {
		name        string
		couponID    string
		user        *model.User
		checkExpiry bool
		valid       bool
		reason      string
	}{
		{"missing id", "", user, true, false, ReasonCouponRequired},
		{"no user", "live", nil, true, false, ReasonUnauthenticated},
		{"unknown coupon", "ghost", user, true, false, ReasonCouponNotFound},
		{"gift is not a coupon", "gift", user, true, false, ReasonNotACoupon},
		{"discount out of range", "broken", user, true, false, ReasonDiscountOutOfRange},
		{"not held", "unowned", user, true, false, ReasonCouponNotInBag},
		{"expired on create", "expired", user, true, false, ReasonCouponExpired},
		{"expired ignored on update", "expired", user, false, true, ""},
		{"live", "live", user, true, true, ""},
		{"no expiry", "forever", user, true, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validator.Validate(context.Background(), tt.couponID, tt.user, tt.checkExpiry)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.reason, result.Reason)
			if tt.valid {
				require.NotNil(t, result.Coupon)
				assert.Equal(t, tt.couponID, result.Coupon.ID)
			}
		})
	}
}

package sanitizer

import (
	"testing"

	"hotelbooking/pkg/model"

	"github.com/stretchr/testify/assert"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Deluxe Suite  ", want: "Deluxe Suite"},
		{name: "multiple spaces between words", input: "Deluxe    Suite", want: "Deluxe Suite"},
		{name: "tabs and newlines", input: "Deluxe\t\nSuite", want: "Deluxe Suite"},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n  ", want: ""},
		{name: "preserve case and symbols", input: " Café & Spa™ ", want: "Café & Spa™"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, TrimAndNormalize(got), "must be idempotent")
		})
	}
}

func TestNormalizeBookingRequest(t *testing.T) {
	req := &model.BookingRequest{
		HotelID:  " 65f1c0d2a1b2c3d4e5f60701\n",
		CouponID: "\t65f1c0d2a1b2c3d4e5f60702 ",
		Rooms: []model.RoomRequest{
			{RoomType: " standard ", Count: 2},
			{RoomType: "Ocean   View", Count: 1},
		},
	}

	NormalizeBookingRequest(req)

	assert.Equal(t, "65f1c0d2a1b2c3d4e5f60701", req.HotelID)
	assert.Equal(t, "65f1c0d2a1b2c3d4e5f60702", req.CouponID)
	assert.Empty(t, req.UserID)
	assert.Equal(t, []model.RoomRequest{
		{RoomType: "standard", Count: 2},
		{RoomType: "Ocean View", Count: 1},
	}, req.Rooms)
}

func TestNormalizeBookingUpdate(t *testing.T) {
	t.Run("rooms are copied, not mutated in place", func(t *testing.T) {
		original := []model.RoomRequest{{RoomType: " suite", Count: 1}}
		update := &model.BookingUpdate{Rooms: &original}

		NormalizeBookingUpdate(update)

		assert.Equal(t, "suite", (*update.Rooms)[0].RoomType)
		assert.Equal(t, " suite", original[0].RoomType)
	})

	t.Run("absent rooms stay absent", func(t *testing.T) {
		update := &model.BookingUpdate{UserID: " 65f1c0d2a1b2c3d4e5f60703 "}

		NormalizeBookingUpdate(update)

		assert.Nil(t, update.Rooms)
		assert.Equal(t, "65f1c0d2a1b2c3d4e5f60703", update.UserID)
	})
}

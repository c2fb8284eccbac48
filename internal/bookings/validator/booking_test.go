package validator

import (
	"errors"
	"strings"
	"testing"
	"time"

	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/model"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	}))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		HotelID:   "65f1c0d2a1b2c3d4e5f60718",
		UserID:    "65f1c0d2a1b2c3d4e5f60730",
		StartDate: date(2024, 1, 1),
		EndDate:   date(2024, 1, 2),
		Rooms:     []model.RoomRequest{{RoomType: "standard", Count: 1}},
	}
}

func TestBookingValidator_Validate(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name      string
		mutate    func(r *model.BookingRequest)
		wantError bool
		field     string
	}{
		{name: "valid", mutate: func(r *model.BookingRequest) {}},
		{name: "exactly three days", mutate: func(r *model.BookingRequest) { r.EndDate = date(2024, 1, 4) }},
		{name: "more than three days", mutate: func(r *model.BookingRequest) { r.EndDate = date(2024, 1, 5) }, wantError: true, field: "endDate"},
		{name: "end before start", mutate: func(r *model.BookingRequest) { r.EndDate = date(2023, 12, 31) }, wantError: true, field: "endDate"},
		{name: "same day", mutate: func(r *model.BookingRequest) { r.EndDate = r.StartDate }, wantError: true, field: "endDate"},
		{name: "missing start", mutate: func(r *model.BookingRequest) { r.StartDate = time.Time{} }, wantError: true, field: "startDate"},
		{name: "missing hotel", mutate: func(r *model.BookingRequest) { r.HotelID = "" }, wantError: true, field: "hotel"},
		{name: "bad hotel id", mutate: func(r *model.BookingRequest) { r.HotelID = "hotel-1" }, wantError: true, field: "hotel"},
		{name: "no rooms", mutate: func(r *model.BookingRequest) { r.Rooms = nil }, wantError: true, field: "rooms"},
		{name: "zero count", mutate: func(r *model.BookingRequest) { r.Rooms[0].Count = 0 }, wantError: true, field: "count"},
		{name: "blank room type", mutate: func(r *model.BookingRequest) { r.Rooms[0].RoomType = "  " }, wantError: true, field: "roomType"},
		{name: "padded room type", mutate: func(r *model.BookingRequest) { r.Rooms[0].RoomType = " deluxe" }, wantError: true, field: "roomType"},
		{name: "bad coupon id", mutate: func(r *model.BookingRequest) { r.CouponID = "SAVE10" }, wantError: true, field: "couponId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.Validate(req)
			if (err != nil) != tt.wantError {
				t.Fatalf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
			if !tt.wantError {
				return
			}

			var errs ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			if errs[0].Field != tt.field {
				t.Errorf("expected field %q, got %q (%s)", tt.field, errs[0].Field, errs[0].Message)
			}
		})
	}
}

func TestBookingValidator_ValidateUpdate(t *testing.T) {
	v := newTestValidator()
	zero := time.Time{}
	emptyRooms := []model.RoomRequest{}

	tests := []struct {
		name      string
		update    *model.BookingUpdate
		wantError bool
	}{
		{"empty update", &model.BookingUpdate{}, false},
		{"status change", &model.BookingUpdate{Status: model.StatusCheckedIn}, false},
		{"unknown status", &model.BookingUpdate{Status: "canceled"}, true},
		{"zero start date", &model.BookingUpdate{StartDate: &zero}, true},
		{"empty room list", &model.BookingUpdate{Rooms: &emptyRooms}, true},
		{"bad user id", &model.BookingUpdate{UserID: "someone"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpdate(tt.update)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateUpdate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestBookingValidator_ValidateQuery(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateQuery(date(2024, 1, 1), date(2024, 1, 10)); err != nil {
		t.Errorf("availability queries have no span limit, got %v", err)
	}
	if err := v.ValidateWindow(date(2024, 1, 1), date(2024, 1, 10)); err == nil {
		t.Errorf("booking windows must respect the span limit")
	}

	err := v.ValidateQuery(time.Time{}, time.Time{})
	if err == nil || !strings.Contains(err.Error(), "startDate is required") {
		t.Errorf("expected missing date errors, got %v", err)
	}
}

package model

import (
	"time"
)

type BookingStatus string

const (
	StatusReserved  BookingStatus = "reserved"
	StatusCheckedIn BookingStatus = "checkedIn"
	StatusCompleted BookingStatus = "completed"
)

// IsActive reports whether a booking in this status still holds inventory.
func (s BookingStatus) IsActive() bool {
	return s == StatusReserved || s == StatusCheckedIn
}

func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusReserved, StatusCheckedIn, StatusCompleted:
		return true
	}
	return false
}

// CalendarDate drops the time of day, keeping the UTC calendar date.
func CalendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type RoomRequest struct {
	RoomType string `json:"roomType" bson:"room_type" validate:"required,room_type,max=100"`
	Count    int    `json:"count" bson:"count" validate:"required,min=1,max=1000"`
}

// Booking is the persisted reservation. Hotel and user are plain ids; see
// BookingExpanded for the populated shape.
type Booking struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty"`
	HotelID   string        `json:"hotel" bson:"hotel_id"`
	UserID    string        `json:"user" bson:"user_id"`
	Status    BookingStatus `json:"status" bson:"status"`
	Price     float64       `json:"price" bson:"price"`
	StartDate time.Time     `json:"startDate" bson:"start_date"`
	EndDate   time.Time     `json:"endDate" bson:"end_date"`
	Rooms     []RoomRequest `json:"rooms" bson:"rooms"`
	CouponID  string        `json:"coupon,omitempty" bson:"coupon_id,omitempty"`
	CreatedAt time.Time     `json:"createdAt" bson:"created_at"`
}

type BookingRequest struct {
	HotelID   string        `json:"hotel" validate:"required,mongodb"`
	UserID    string        `json:"user" validate:"omitempty,mongodb"`
	StartDate time.Time     `json:"startDate"`
	EndDate   time.Time     `json:"endDate"`
	Rooms     []RoomRequest `json:"rooms" validate:"required,min=1,max=20,dive"`
	CouponID  string        `json:"couponId,omitempty" validate:"omitempty,mongodb"`
}

// BookingUpdate carries the fields a caller may change. Price is absent on
// purpose: it is always recomputed.
type BookingUpdate struct {
	UserID    string         `json:"user,omitempty" validate:"omitempty,mongodb"`
	StartDate *time.Time     `json:"startDate,omitempty"`
	EndDate   *time.Time     `json:"endDate,omitempty"`
	Rooms     *[]RoomRequest `json:"rooms,omitempty" validate:"omitempty,min=1,max=20,dive"`
	Status    BookingStatus  `json:"status,omitempty" validate:"omitempty,oneof=reserved checkedIn completed"`
}

type BookingFilter struct {
	HotelID string
	UserID  string
}

type HotelSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Tel  string `json:"tel,omitempty"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BookingExpanded is the populated read shape of a booking.
type BookingExpanded struct {
	ID        string        `json:"id"`
	Hotel     HotelSummary  `json:"hotel"`
	User      UserSummary   `json:"user"`
	Status    BookingStatus `json:"status"`
	Price     float64       `json:"price"`
	StartDate time.Time     `json:"startDate"`
	EndDate   time.Time     `json:"endDate"`
	Rooms     []RoomRequest `json:"rooms"`
	CouponID  string        `json:"coupon,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

func ExpandBooking(b *Booking, hotel *Hotel, user *User) *BookingExpanded {
	return &BookingExpanded{
		ID:        b.ID,
		Hotel:     HotelSummary{ID: hotel.ID, Name: hotel.Name, Tel: hotel.Tel},
		User:      UserSummary{ID: user.ID, Name: user.Name, Email: user.Email},
		Status:    b.Status,
		Price:     b.Price,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		Rooms:     b.Rooms,
		CouponID:  b.CouponID,
		CreatedAt: b.CreatedAt,
	}
}

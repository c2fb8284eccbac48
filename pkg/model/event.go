package model

import "time"

const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCanceled  = "booking.canceled"
	EventBookingCheckedIn = "booking.checked_in"
	EventBookingCompleted = "booking.completed"
)

type BookingEvent struct {
	Type          string        `json:"type"`
	BookingID     string        `json:"bookingId"`
	HotelID       string        `json:"hotelId"`
	UserID        string        `json:"userId"`
	ActorID       string        `json:"actorId"`
	Status        BookingStatus `json:"status"`
	Price         float64       `json:"price"`
	PointsAwarded int64         `json:"pointsAwarded,omitempty"`
	OccurredAt    time.Time     `json:"occurredAt"`
}

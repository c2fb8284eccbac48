package model

import "time"

// RoomType is one entry of a hotel's catalog.
type RoomType struct {
	RoomType string  `json:"roomType" bson:"room_type"`
	Picture  string  `json:"picture,omitempty" bson:"picture,omitempty"`
	Capacity int     `json:"capacity" bson:"capacity"`
	MaxCount int     `json:"maxCount" bson:"max_count"`
	Price    float64 `json:"price" bson:"price"`
}

type Hotel struct {
	ID          string     `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	Tel         string     `json:"tel" bson:"tel"`
	Rooms       []RoomType `json:"rooms" bson:"rooms"`
	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
}

type RoomAvailability struct {
	Type        string `json:"type"`
	RemainCount int    `json:"remainCount"`
}

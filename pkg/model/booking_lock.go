package model

import "time"

// BookingLock is an advisory lock serializing capacity checks and writes for
// one hotel. Owner identifies the holder so only it can release the lock.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

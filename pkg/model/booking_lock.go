package model

import "time"

// BookingLock is a short-lived advisory lock document guarding one booking
// slot while a create or update is in flight. The lock ID encodes the slot
// coordinates; a TTL index reaps stale locks.
type BookingLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

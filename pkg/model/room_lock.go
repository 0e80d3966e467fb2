package model

import "time"

// RoomLock is an advisory lock serializing the overlap check and write for a
// single room. The _id is derived from the room id, so two concurrent booking
// attempts for the same room collide on the unique index regardless of the
// intervals they request.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

package model

import (
	"time"
)

// Status is the closed set of booking lifecycle states. A booking is created
// as StatusBooked and moves to exactly one terminal state; terminal bookings
// never block the room again.
type Status string

const (
	StatusBooked     Status = "booked"
	StatusCancelled  Status = "cancelled"
	StatusOverridden Status = "overridden"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusBooked, StatusCancelled, StatusOverridden, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether the status can never transition back to booked.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusOverridden || s == StatusCompleted
}

// Booking represents a reservation of a meeting room for a half-open
// interval [StartTime, EndTime). UserID and RoomID are foreign references
// owned by the users and rooms services.
type Booking struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UserID             string    `json:"user_id" bson:"user_id" validate:"required"`
	RoomID             string    `json:"room_id" bson:"room_id" validate:"required"`
	StartTime          time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime            time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status             Status    `json:"status" bson:"status" validate:"required,oneof=booked cancelled overridden completed"`
	AttendeeCount      int       `json:"attendee_count,omitempty" bson:"attendee_count,omitempty" validate:"omitempty,min=1"`
	CancellationReason string    `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty" validate:"omitempty,max=500"`
	OverrideReason     string    `json:"override_reason,omitempty" bson:"override_reason,omitempty" validate:"omitempty,max=500"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	ModifiedAt         time.Time `json:"modified_at" bson:"modified_at" validate:"omitempty"`
}

// Duration of the booked interval.
func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// BookingUpdate carries a partial update; nil/empty fields are left unchanged.
type BookingUpdate struct {
	StartTime     *time.Time `json:"start_time,omitempty" validate:"omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty" validate:"omitempty"`
	AttendeeCount *int       `json:"attendee_count,omitempty" validate:"omitempty,min=1"`
	Status        Status     `json:"status,omitempty" validate:"omitempty,oneof=booked cancelled overridden completed"`
}

func (u *BookingUpdate) TouchesTime() bool {
	return u.StartTime != nil || u.EndTime != nil
}

type CancelRequest struct {
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type OverrideRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// AvailabilityCheck is the answer to "can this room be booked for [start,end)".
// ConflictingBookings lists the ids of active bookings blocking the slot,
// for diagnostics and error messages.
type AvailabilityCheck struct {
	RoomID              string   `json:"room_id"`
	Available           bool     `json:"available"`
	StartTime           string   `json:"start_time"`
	EndTime             string   `json:"end_time"`
	ConflictingBookings []string `json:"conflicting_bookings"`
}

// Statistics aggregates booking counts by status. Rates are percentages and
// are zero when no bookings exist.
type Statistics struct {
	TotalBookings      int64   `json:"total_bookings"`
	ActiveBookings     int64   `json:"active_bookings"`
	CancelledBookings  int64   `json:"cancelled_bookings"`
	OverriddenBookings int64   `json:"overridden_bookings"`
	CompletedBookings  int64   `json:"completed_bookings"`
	CancellationRate   float64 `json:"cancellation_rate"`
	OverrideRate       float64 `json:"override_rate"`
}

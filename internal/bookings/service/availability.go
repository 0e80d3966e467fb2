package service

import (
	"context"
	"time"

	"roombook/internal/bookings/repository"
	apperrors "roombook/pkg/errors"
)

// AvailabilityChecker answers whether a room can be booked for a candidate
// interval. Intervals are half-open: a booking ending exactly when another
// starts does not conflict. Only bookings in status booked block a room;
// cancelled, overridden and completed bookings are invisible here.
type AvailabilityChecker struct {
	repo repository.BookingRepository
}

func NewAvailabilityChecker(repo repository.BookingRepository) *AvailabilityChecker {
	return &AvailabilityChecker{repo: repo}
}

// IsAvailable reports whether no active booking for the room overlaps
// [start, end). excludeID, when non-empty, removes one booking from
// consideration so an update does not conflict with itself.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, roomID string, start, end time.Time, excludeID string) (bool, error) {
	conflicts, err := c.ConflictingBookings(ctx, roomID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// ConflictingBookings returns the ids of active bookings overlapping
// [start, end), for diagnostics and conflict error details. The checker owns
// the overlap predicate; the repository query narrows candidates with the
// equivalent filter.
func (c *AvailabilityChecker) ConflictingBookings(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]string, error) {
	candidates, err := c.repo.FindOverlapping(ctx, roomID, start, end, excludeID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing bookings", err)
	}

	ids := make([]string, 0, len(candidates))
	for _, b := range candidates {
		if overlaps(b.StartTime, b.EndTime, start, end) {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

// overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// intersect. Intervals that only touch at an endpoint do not overlap.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && e1.After(s2)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/validator"
	"roombook/internal/directory"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/events"
	"roombook/pkg/model"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, status model.Status, limit int, offset int64) ([]*model.Booking, int64, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error)
	Cancel(ctx context.Context, id string, reason string) (*model.Booking, error)
	Override(ctx context.Context, id string, reason string) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, userID string, includeCancelled bool) ([]*model.Booking, error)
	ForRoom(ctx context.Context, roomID string, status model.Status) ([]*model.Booking, error)
	CheckAvailability(ctx context.Context, roomID string, start, end time.Time) (*model.AvailabilityCheck, error)
	Statistics(ctx context.Context) (*model.Statistics, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.RoomLockRepository
	checker   *AvailabilityChecker
	validator *validator.BookingValidator
	users     directory.UserDirectory
	rooms     directory.RoomDirectory
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.RoomLockRepository,
	checker *AvailabilityChecker,
	bookingValidator *validator.BookingValidator,
	users directory.UserDirectory,
	rooms directory.RoomDirectory,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		checker:   checker,
		validator: bookingValidator,
		users:     users,
		rooms:     rooms,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	if booking.Status == "" {
		booking.Status = model.StatusBooked
	}
	if booking.Status != model.StatusBooked {
		return nil, apperrors.Validation("New bookings must start in status booked", nil)
	}

	if err := s.validate(booking); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateFutureStart(booking); err != nil {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.checkUser(ctx, booking.UserID); err != nil {
		return nil, err
	}
	if err := s.checkRoom(ctx, booking); err != nil {
		return nil, err
	}

	// Per-room advisory lock: the overlap check and the insert must act as
	// one atomic unit, or two concurrent requests for the same room could
	// both pass the check before either commits.
	lockID, err := s.acquireRoomLock(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		if err := s.verifyNoConflict(sessCtx, booking.RoomID, booking.StartTime, booking.EndTime, ""); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "room_id", booking.RoomID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", booking.UserID,
		"room_id", booking.RoomID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	s.publish(ctx, events.TypeBookingCreated, booking, "")
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id, "retrieve")
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, status model.Status, limit int, offset int64) ([]*model.Booking, int64, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Unknown booking status: %s", status))
	}

	count, err := s.repo.Count(ctx, status)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	bookings, err := s.repo.FindAll(ctx, status, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, count, nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id, "update")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	// Terminal bookings are immutable: time edits and status changes are both
	// rejected rather than silently applied without an availability re-check.
	if existing.Status.Terminal() {
		if updates.TouchesTime() || (updates.Status != "" && updates.Status != existing.Status) {
			return nil, apperrors.Validation(
				fmt.Sprintf("Booking in status %s cannot be modified", existing.Status), nil)
		}
	}
	if updates.Status == model.StatusOverridden && existing.Status != model.StatusOverridden {
		return nil, apperrors.Validation("Status overridden can only be set through the override operation", nil)
	}

	merged := s.mergeUpdates(existing, updates)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	needsAvailabilityCheck := updates.TouchesTime() && merged.Status == model.StatusBooked

	var lockID string
	if needsAvailabilityCheck {
		lockID, err = s.acquireRoomLock(ctx, merged.RoomID)
		if err != nil {
			return nil, err
		}
		defer func() {
			if releaseErr := s.releaseRoomLock(ctx, lockID); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release room lock", "lock_id", lockID, "error", releaseErr)
			}
		}()
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx context.Context) error {
		if needsAvailabilityCheck {
			if err := s.verifyNoConflict(sessCtx, merged.RoomID, merged.StartTime, merged.EndTime, id); err != nil {
				return err
			}
		}
		if err := s.repo.Update(sessCtx, id, merged); err != nil {
			return mapRepoError(err, id, "update")
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id)
	s.publish(ctx, events.TypeBookingUpdated, merged, "")
	return merged, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string, reason string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if len(reason) > 500 {
		return nil, apperrors.Validation("Cancellation reason must be at most 500 characters", nil)
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id, "cancel")
	}

	if booking.Status != model.StatusBooked {
		return nil, apperrors.Conflict(fmt.Sprintf("Only active bookings can be cancelled, booking is %s", booking.Status))
	}

	booking.Status = model.StatusCancelled
	booking.CancellationReason = reason

	if err := s.repo.Update(ctx, id, booking); err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, mapRepoError(err, id, "cancel")
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "room_id", booking.RoomID)
	s.publish(ctx, events.TypeBookingCancelled, booking, reason)
	return booking, nil
}

func (s *bookingService) Override(ctx context.Context, id string, reason string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateOverride(&model.OverrideRequest{Reason: reason}); err != nil {
		return nil, apperrors.Validation("Invalid override request", map[string]any{"error": err.Error()})
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id, "override")
	}

	if booking.Status != model.StatusBooked {
		return nil, apperrors.Conflict(fmt.Sprintf("Only active bookings can be overridden, booking is %s", booking.Status))
	}

	booking.Status = model.StatusOverridden
	booking.OverrideReason = reason

	if err := s.repo.Update(ctx, id, booking); err != nil {
		s.cfg.Log.Error("Failed to override booking", "id", id, "error", err)
		return nil, mapRepoError(err, id, "override")
	}

	s.cfg.Log.Info("Booking overridden", "id", id, "room_id", booking.RoomID, "reason", reason)
	s.publish(ctx, events.TypeBookingOverridden, booking, reason)
	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, id, "delete")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, id, "delete")
	}

	s.cfg.Log.Info("Booking deleted", "id", id)
	s.publish(ctx, events.TypeBookingDeleted, booking, "")
	return nil
}

func (s *bookingService) History(ctx context.Context, userID string, includeCancelled bool) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	bookings, err := s.repo.FindByUser(ctx, userID, includeCancelled)
	if err != nil {
		s.cfg.Log.Error("Failed to fetch booking history", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking history", err)
	}
	return bookings, nil
}

func (s *bookingService) ForRoom(ctx context.Context, roomID string, status model.Status) ([]*model.Booking, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if status != "" && !status.Valid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown booking status: %s", status))
	}

	bookings, err := s.repo.FindByRoom(ctx, roomID, status)
	if err != nil {
		s.cfg.Log.Error("Failed to fetch room bookings", "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve room bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, roomID string, start, end time.Time) (*model.AvailabilityCheck, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}
	if !end.After(start) {
		return nil, apperrors.InvalidInput("end_time must be after start_time")
	}

	conflicts, err := s.checker.ConflictingBookings(ctx, roomID, start, end, "")
	if err != nil {
		return nil, err
	}

	return &model.AvailabilityCheck{
		RoomID:              roomID,
		Available:           len(conflicts) == 0,
		StartTime:           start.Format(time.RFC3339),
		EndTime:             end.Format(time.RFC3339),
		ConflictingBookings: conflicts,
	}, nil
}

func (s *bookingService) Statistics(ctx context.Context) (*model.Statistics, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to compute booking statistics", "error", err)
		return nil, apperrors.Internal("Failed to compute statistics", err)
	}

	stats := &model.Statistics{
		ActiveBookings:     counts[model.StatusBooked],
		CancelledBookings:  counts[model.StatusCancelled],
		OverriddenBookings: counts[model.StatusOverridden],
		CompletedBookings:  counts[model.StatusCompleted],
	}
	for _, c := range counts {
		stats.TotalBookings += c
	}

	// Rates are percentages; zero bookings means zero rates, not a division.
	if stats.TotalBookings > 0 {
		stats.CancellationRate = float64(stats.CancelledBookings) / float64(stats.TotalBookings) * 100
		stats.OverrideRate = float64(stats.OverriddenBookings) / float64(stats.TotalBookings) * 100
	}

	return stats, nil
}

// --- Helpers ---

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// checkUser confirms the booking's owner exists in the user directory. On the
// on-behalf-of path the owner id comes from the request body, not from the
// caller's token, so the gate's caller resolution does not cover it.
func (s *bookingService) checkUser(ctx context.Context, userID string) error {
	if _, err := s.users.ResolveUser(ctx, userID); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return apperrors.NotFoundWithID("User", userID)
		}
		return apperrors.Unavailable("Users service")
	}
	return nil
}

// checkRoom confirms the room exists, is active and can seat the attendees.
// A directory outage is surfaced as unavailable, never as room-not-found.
func (s *bookingService) checkRoom(ctx context.Context, booking *model.Booking) error {
	room, err := s.rooms.ResolveRoom(ctx, booking.RoomID)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return apperrors.NotFoundWithID("Room", booking.RoomID)
		}
		return apperrors.Unavailable("Rooms service")
	}

	if !room.IsActive {
		return apperrors.InvalidInput("Room is not active")
	}
	if booking.AttendeeCount > 0 && room.Capacity > 0 && booking.AttendeeCount > room.Capacity {
		return apperrors.Validation(
			fmt.Sprintf("Attendee count (%d) exceeds room capacity (%d)", booking.AttendeeCount, room.Capacity), nil)
	}
	return nil
}

func (s *bookingService) verifyNoConflict(ctx context.Context, roomID string, start, end time.Time, excludeID string) error {
	conflicts, err := s.checker.ConflictingBookings(ctx, roomID, start, end, excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return apperrors.Conflict("Room not available for the requested time").WithDetails(map[string]any{
			"room_id":              roomID,
			"conflicting_bookings": conflicts,
		})
	}
	return nil
}

func (s *bookingService) mergeUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.AttendeeCount != nil {
		merged.AttendeeCount = *updates.AttendeeCount
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	return &merged
}

// acquireRoomLock takes the per-room advisory lock. A duplicate key on the
// lock collection means another request is mid-flight for the same room.
func (s *bookingService) acquireRoomLock(ctx context.Context, roomID string) (string, error) {
	lockID := fmt.Sprintf("room_lock_%s", roomID)

	lock := &model.RoomLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.LockTTL),
	}

	if err := s.lockRepo.Create(ctx, lock); err != nil {
		if errors.Is(err, bookingserrors.ErrLockHeld) {
			return "", apperrors.Conflict("This room is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire room lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseRoomLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking, reason string) {
	err := s.publisher.Publish(ctx, events.BookingEvent{
		Type:      eventType,
		BookingID: booking.ID,
		RoomID:    booking.RoomID,
		UserID:    booking.UserID,
		Status:    string(booking.Status),
		Reason:    reason,
	})
	if err != nil {
		s.cfg.Log.Warn("Failed to publish booking event", "type", eventType, "booking_id", booking.ID, "error", err)
	}
}

func mapRepoError(err error, id string, operation string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(fmt.Sprintf("Failed to %s booking", operation), err)
}

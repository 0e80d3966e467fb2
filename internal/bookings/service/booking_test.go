package service

import (
	"context"
	"testing"
	"time"

	bookingserrors "roombook/internal/bookings/errors"
	"roombook/internal/bookings/validator"
	"roombook/internal/directory"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/events"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

type mockBookingRepo struct {
	createFn          func(ctx context.Context, booking *model.Booking) error
	findByIDFn        func(ctx context.Context, id string) (*model.Booking, error)
	findAllFn         func(ctx context.Context, status model.Status, limit int, offset int64) ([]*model.Booking, error)
	countFn           func(ctx context.Context, status model.Status) (int64, error)
	findOverlappingFn func(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*model.Booking, error)
	findByUserFn      func(ctx context.Context, userID string, includeCancelled bool) ([]*model.Booking, error)
	findByRoomFn      func(ctx context.Context, roomID string, status model.Status) ([]*model.Booking, error)
	updateFn          func(ctx context.Context, id string, booking *model.Booking) error
	deleteFn          func(ctx context.Context, id string) error
	countByStatusFn   func(ctx context.Context) (map[model.Status]int64, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, booking)
	}
	booking.ID = "64b0c0ffee0000000000aaaa"
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepo) FindAll(ctx context.Context, status model.Status, limit int, offset int64) ([]*model.Booking, error) {
	if m.findAllFn != nil {
		return m.findAllFn(ctx, status, limit, offset)
	}
	return nil, nil
}

func (m *mockBookingRepo) Count(ctx context.Context, status model.Status) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx, status)
	}
	return 0, nil
}

func (m *mockBookingRepo) FindOverlapping(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*model.Booking, error) {
	if m.findOverlappingFn != nil {
		return m.findOverlappingFn(ctx, roomID, start, end, excludeID)
	}
	return nil, nil
}

func (m *mockBookingRepo) FindByUser(ctx context.Context, userID string, includeCancelled bool) ([]*model.Booking, error) {
	if m.findByUserFn != nil {
		return m.findByUserFn(ctx, userID, includeCancelled)
	}
	return nil, nil
}

func (m *mockBookingRepo) FindByRoom(ctx context.Context, roomID string, status model.Status) ([]*model.Booking, error) {
	if m.findByRoomFn != nil {
		return m.findByRoomFn(ctx, roomID, status)
	}
	return nil, nil
}

func (m *mockBookingRepo) Update(ctx context.Context, id string, booking *model.Booking) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, booking)
	}
	return nil
}

func (m *mockBookingRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockBookingRepo) CountByStatus(ctx context.Context) (map[model.Status]int64, error) {
	if m.countByStatusFn != nil {
		return m.countByStatusFn(ctx)
	}
	return map[model.Status]int64{}, nil
}

func (m *mockBookingRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

type mockLockRepo struct {
	createFn func(ctx context.Context, lock *model.RoomLock) error
	deleteFn func(ctx context.Context, lockID string) error
}

func (m *mockLockRepo) Create(ctx context.Context, lock *model.RoomLock) error {
	if m.createFn != nil {
		return m.createFn(ctx, lock)
	}
	return nil
}

func (m *mockLockRepo) Delete(ctx context.Context, lockID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, lockID)
	}
	return nil
}

func (m *mockLockRepo) EnsureIndexes(ctx context.Context) error { return nil }

type mockUserDirectory struct {
	resolveFn func(ctx context.Context, identifier string) (*directory.User, error)
}

func (m *mockUserDirectory) ResolveUser(ctx context.Context, identifier string) (*directory.User, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, identifier)
	}
	return &directory.User{ID: identifier, Username: identifier, Role: "regular"}, nil
}

type mockRoomDirectory struct {
	resolveFn func(ctx context.Context, roomID string) (*directory.Room, error)
}

func (m *mockRoomDirectory) ResolveRoom(ctx context.Context, roomID string) (*directory.Room, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, roomID)
	}
	return &directory.Room{ID: roomID, Name: "Test Room", IsActive: true, Capacity: 10}, nil
}

type mockPublisher struct {
	published []events.BookingEvent
}

func (m *mockPublisher) Publish(ctx context.Context, event events.BookingEvent) error {
	m.published = append(m.published, event)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func newTestService(repo *mockBookingRepo, locks *mockLockRepo, rooms *mockRoomDirectory, pub *mockPublisher) BookingService {
	return newTestServiceWithUsers(repo, locks, &mockUserDirectory{}, rooms, pub)
}

func newTestServiceWithUsers(repo *mockBookingRepo, locks *mockLockRepo, users *mockUserDirectory, rooms *mockRoomDirectory, pub *mockPublisher) BookingService {
	log := logger.New(logger.Config{Level: logger.ERROR, Format: logger.TEXT})
	cfg := &config.Config{
		Log:     log,
		LockTTL: 10 * time.Second,
	}
	v := validator.NewBookingValidator(15*time.Minute, 8*time.Hour, false, log)
	return NewBookingService(repo, locks, NewAvailabilityChecker(repo), v, users, rooms, pub, cfg)
}

func newBooking() *model.Booking {
	start := time.Now().Add(24 * time.Hour).UTC()
	return &model.Booking{
		UserID:    "507f1f77bcf86cd799439011",
		RoomID:    "507f1f77bcf86cd799439012",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    model.StatusBooked,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !apperrors.IsCode(err, code) {
		t.Fatalf("expected %s error, got: %v", code, err)
	}
}

func TestCreate_Success(t *testing.T) {
	repo := &mockBookingRepo{}
	locks := &mockLockRepo{}
	pub := &mockPublisher{}
	svc := newTestService(repo, locks, &mockRoomDirectory{}, pub)

	created, err := svc.Create(context.Background(), newBooking())
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if created.Status != model.StatusBooked {
		t.Errorf("Create() status = %s, want %s", created.Status, model.StatusBooked)
	}
	if len(pub.published) != 1 || pub.published[0].Type != events.TypeBookingCreated {
		t.Errorf("Create() published events = %+v, want one %s", pub.published, events.TypeBookingCreated)
	}
}

func TestCreate_ConflictReturnsBlockingIDs(t *testing.T) {
	existing := newBooking()
	existing.ID = "64b0c0ffee0000000000bbbb"

	repo := &mockBookingRepo{
		findOverlappingFn: func(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*model.Booking, error) {
			return []*model.Booking{existing}, nil
		},
	}
	svc := newTestService(repo, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

	_, err := svc.Create(context.Background(), newBooking())
	assertCode(t, err, apperrors.CodeConflict)

	appErr := apperrors.AsAppError(err)
	ids, ok := appErr.Details["conflicting_bookings"].([]string)
	if !ok || len(ids) != 1 || ids[0] != existing.ID {
		t.Errorf("conflict details = %+v, want conflicting_bookings [%s]", appErr.Details, existing.ID)
	}
}

func TestCreate_RoomLockHeld(t *testing.T) {
	locks := &mockLockRepo{
		createFn: func(ctx context.Context, lock *model.RoomLock) error {
			return bookingserrors.ErrLockHeld
		},
	}
	svc := newTestService(&mockBookingRepo{}, locks, &mockRoomDirectory{}, &mockPublisher{})

	_, err := svc.Create(context.Background(), newBooking())
	assertCode(t, err, apperrors.CodeConflict)
}

func TestCreate_ReleasesLockOnConflict(t *testing.T) {
	released := false
	locks := &mockLockRepo{
		deleteFn: func(ctx context.Context, lockID string) error {
			released = true
			return nil
		},
	}
	repo := &mockBookingRepo{
		findOverlappingFn: func(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*model.Booking, error) {
			return []*model.Booking{{ID: "64b0c0ffee0000000000bbbb", StartTime: start, EndTime: end}}, nil
		},
	}
	svc := newTestService(repo, locks, &mockRoomDirectory{}, &mockPublisher{})

	if _, err := svc.Create(context.Background(), newBooking()); err == nil {
		t.Fatal("expected conflict error")
	}
	if !released {
		t.Error("room lock was not released after conflict")
	}
}

func TestCreate_DirectoryFailures(t *testing.T) {
	tests := []struct {
		name     string
		resolve  func(ctx context.Context, roomID string) (*directory.Room, error)
		wantCode string
	}{
		{
			name: "room not found",
			resolve: func(ctx context.Context, roomID string) (*directory.Room, error) {
				return nil, directory.ErrNotFound
			},
			wantCode: apperrors.CodeNotFound,
		},
		{
			name: "rooms service down",
			resolve: func(ctx context.Context, roomID string) (*directory.Room, error) {
				return nil, directory.ErrUnavailable
			},
			wantCode: apperrors.CodeUnavailable,
		},
		{
			name: "room inactive",
			resolve: func(ctx context.Context, roomID string) (*directory.Room, error) {
				return &directory.Room{ID: roomID, IsActive: false, Capacity: 10}, nil
			},
			wantCode: apperrors.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, &mockRoomDirectory{resolveFn: tt.resolve}, &mockPublisher{})

			_, err := svc.Create(context.Background(), newBooking())
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestCreate_OwnerMustExistInUserDirectory(t *testing.T) {
	tests := []struct {
		name     string
		resolve  func(ctx context.Context, identifier string) (*directory.User, error)
		wantCode string
	}{
		{
			name: "unknown owner rejected",
			resolve: func(ctx context.Context, identifier string) (*directory.User, error) {
				return nil, directory.ErrNotFound
			},
			wantCode: apperrors.CodeNotFound,
		},
		{
			name: "users service down",
			resolve: func(ctx context.Context, identifier string) (*directory.User, error) {
				return nil, directory.ErrUnavailable
			},
			wantCode: apperrors.CodeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepo{
				createFn: func(ctx context.Context, booking *model.Booking) error {
					t.Error("Create() persisted a booking with an unresolved owner")
					return nil
				},
			}
			users := &mockUserDirectory{resolveFn: tt.resolve}
			svc := newTestServiceWithUsers(repo, &mockLockRepo{}, users, &mockRoomDirectory{}, &mockPublisher{})

			b := newBooking()
			b.UserID = "64b0c0ffee00000000009999"

			_, err := svc.Create(context.Background(), b)
			assertCode(t, err, tt.wantCode)
		})
	}
}

func TestCreate_AttendeesExceedCapacity(t *testing.T) {
	rooms := &mockRoomDirectory{
		resolveFn: func(ctx context.Context, roomID string) (*directory.Room, error) {
			return &directory.Room{ID: roomID, IsActive: true, Capacity: 4}, nil
		},
	}
	svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, rooms, &mockPublisher{})

	b := newBooking()
	b.AttendeeCount = 5

	_, err := svc.Create(context.Background(), b)
	assertCode(t, err, apperrors.CodeValidation)
}

func TestCreate_InvalidDuration(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

	b := newBooking()
	b.EndTime = b.StartTime.Add(10 * time.Minute)

	_, err := svc.Create(context.Background(), b)
	assertCode(t, err, apperrors.CodeValidation)
}

func TestCreate_NonBookedStatusRejected(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

	b := newBooking()
	b.Status = model.StatusCancelled

	_, err := svc.Create(context.Background(), b)
	assertCode(t, err, apperrors.CodeValidation)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

	_, err := svc.GetByID(context.Background(), "64b0c0ffee0000000000cccc")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestGetByID_InvalidID(t *testing.T) {
	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, bookingserrors.ErrInvalidID
		},
	}
	svc := newTestService(repo, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

	_, err := svc.GetByID(context.Background(), "not-an-object-id")
	assertCode(t, err, apperrors.CodeInvalidInput)
}

func TestUpdate_ExcludesSelfFromConflictCheck(t *testing.T) {
	existing := newBooking()
	existing.ID = "64b0c0ffee0000000000dddd"

	var gotExclude string
	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			b := *existing
			return &b, nil
		},
		findOverlappingFn: func(ctx context.Context, roomID string, start, end time.Time, excludeID string) ([]*model.Booking, error) {
			gotExclude = excludeID
			return nil, nil
		},
	}
	svc := newTestService(repo, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

	newStart := existing.StartTime.Add(30 * time.Minute)
	newEnd := newStart.Add(time.Hour)

	_, err := svc.Update(context.Background(), existing.ID, &model.BookingUpdate{StartTime: &newStart, EndTime: &newEnd})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if gotExclude != existing.ID {
		t.Errorf("conflict check excludeID = %q, want %q", gotExclude, existing.ID)
	}
}

func TestUpdate_TerminalBookingImmutable(t *testing.T) {
	for _, status := range []model.Status{model.StatusCancelled, model.StatusOverridden, model.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			existing := newBooking()
			existing.ID = "64b0c0ffee0000000000dddd"
			existing.Status = status

			repo := &mockBookingRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
					b := *existing
					return &b, nil
				},
			}
			svc := newTestService(repo, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

			newStart := existing.StartTime.Add(time.Hour)
			_, err := svc.Update(context.Background(), existing.ID, &model.BookingUpdate{StartTime: &newStart})
			assertCode(t, err, apperrors.CodeValidation)

			_, err = svc.Update(context.Background(), existing.ID, &model.BookingUpdate{Status: model.StatusBooked})
			assertCode(t, err, apperrors.CodeValidation)
		})
	}
}

func TestUpdate_CannotSetOverriddenDirectly(t *testing.T) {
	existing := newBooking()
	existing.ID = "64b0c0ffee0000000000dddd"

	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			b := *existing
			return &b, nil
		},
	}
	svc := newTestService(repo, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

	_, err := svc.Update(context.Background(), existing.ID, &model.BookingUpdate{Status: model.StatusOverridden})
	assertCode(t, err, apperrors.CodeValidation)
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name     string
		status   model.Status
		wantCode string
	}{
		{"booked can be cancelled", model.StatusBooked, ""},
		{"cancelled cannot be cancelled again", model.StatusCancelled, apperrors.CodeConflict},
		{"overridden cannot be cancelled", model.StatusOverridden, apperrors.CodeConflict},
		{"completed cannot be cancelled", model.StatusCompleted, apperrors.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := newBooking()
			existing.ID = "64b0c0ffee0000000000eeee"
			existing.Status = tt.status

			repo := &mockBookingRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
					b := *existing
					return &b, nil
				},
			}
			pub := &mockPublisher{}
			svc := newTestService(repo, &mockLockRepo{}, &mockRoomDirectory{}, pub)

			cancelled, err := svc.Cancel(context.Background(), existing.ID, "no longer needed")
			if tt.wantCode != "" {
				assertCode(t, err, tt.wantCode)
				return
			}
			if err != nil {
				t.Fatalf("Cancel() unexpected error: %v", err)
			}
			if cancelled.Status != model.StatusCancelled {
				t.Errorf("Cancel() status = %s, want %s", cancelled.Status, model.StatusCancelled)
			}
			if cancelled.CancellationReason != "no longer needed" {
				t.Errorf("Cancel() reason = %q", cancelled.CancellationReason)
			}
			if len(pub.published) != 1 || pub.published[0].Type != events.TypeBookingCancelled {
				t.Errorf("Cancel() events = %+v", pub.published)
			}
		})
	}
}

func TestOverride(t *testing.T) {
	existing := newBooking()
	existing.ID = "64b0c0ffee0000000000ffff"

	repo := &mockBookingRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Booking, error) {
			b := *existing
			return &b, nil
		},
	}
	svc := newTestService(repo, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

	t.Run("requires reason", func(t *testing.T) {
		_, err := svc.Override(context.Background(), existing.ID, "  ")
		assertCode(t, err, apperrors.CodeValidation)
	})

	t.Run("sets overridden status", func(t *testing.T) {
		overridden, err := svc.Override(context.Background(), existing.ID, "board meeting takes the room")
		if err != nil {
			t.Fatalf("Override() unexpected error: %v", err)
		}
		if overridden.Status != model.StatusOverridden {
			t.Errorf("Override() status = %s, want %s", overridden.Status, model.StatusOverridden)
		}
		if overridden.OverrideReason == "" {
			t.Error("Override() did not record the reason")
		}
	})

	t.Run("only booked can be overridden", func(t *testing.T) {
		terminal := newBooking()
		terminal.ID = existing.ID
		terminal.Status = model.StatusCancelled
		repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
			b := *terminal
			return &b, nil
		}

		_, err := svc.Override(context.Background(), existing.ID, "reason")
		assertCode(t, err, apperrors.CodeConflict)
	})
}

func TestCheckAvailability(t *testing.T) {
	start := time.Now().Add(time.Hour).UTC()
	end := start.Add(time.Hour)

	t.Run("free room", func(t *testing.T) {
		svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

		check, err := svc.CheckAvailability(context.Background(), "507f1f77bcf86cd799439012", start, end)
		if err != nil {
			t.Fatalf("CheckAvailability() unexpected error: %v", err)
		}
		if !check.Available {
			t.Error("CheckAvailability() available = false, want true")
		}
		if len(check.ConflictingBookings) != 0 {
			t.Errorf("CheckAvailability() conflicts = %v, want none", check.ConflictingBookings)
		}
	})

	t.Run("occupied room", func(t *testing.T) {
		repo := &mockBookingRepo{
			findOverlappingFn: func(ctx context.Context, roomID string, s, e time.Time, excludeID string) ([]*model.Booking, error) {
				return []*model.Booking{{ID: "64b0c0ffee0000000000bbbb", StartTime: s, EndTime: e}}, nil
			},
		}
		svc := newTestService(repo, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

		check, err := svc.CheckAvailability(context.Background(), "507f1f77bcf86cd799439012", start, end)
		if err != nil {
			t.Fatalf("CheckAvailability() unexpected error: %v", err)
		}
		if check.Available {
			t.Error("CheckAvailability() available = true, want false")
		}
		if len(check.ConflictingBookings) != 1 {
			t.Errorf("CheckAvailability() conflicts = %v, want one", check.ConflictingBookings)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

		_, err := svc.CheckAvailability(context.Background(), "507f1f77bcf86cd799439012", end, start)
		assertCode(t, err, apperrors.CodeInvalidInput)
	})
}

func TestStatistics(t *testing.T) {
	t.Run("computes rates", func(t *testing.T) {
		repo := &mockBookingRepo{
			countByStatusFn: func(ctx context.Context) (map[model.Status]int64, error) {
				return map[model.Status]int64{
					model.StatusBooked:     5,
					model.StatusCancelled:  3,
					model.StatusOverridden: 1,
					model.StatusCompleted:  1,
				}, nil
			},
		}
		svc := newTestService(repo, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

		stats, err := svc.Statistics(context.Background())
		if err != nil {
			t.Fatalf("Statistics() unexpected error: %v", err)
		}
		if stats.TotalBookings != 10 {
			t.Errorf("total = %d, want 10", stats.TotalBookings)
		}
		if stats.CancellationRate != 30 {
			t.Errorf("cancellation rate = %f, want 30", stats.CancellationRate)
		}
		if stats.OverrideRate != 10 {
			t.Errorf("override rate = %f, want 10", stats.OverrideRate)
		}
	})

	t.Run("zero bookings means zero rates", func(t *testing.T) {
		svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

		stats, err := svc.Statistics(context.Background())
		if err != nil {
			t.Fatalf("Statistics() unexpected error: %v", err)
		}
		if stats.TotalBookings != 0 || stats.CancellationRate != 0 || stats.OverrideRate != 0 {
			t.Errorf("Statistics() = %+v, want all zero", stats)
		}
	})
}

func TestDelete_NotFound(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

	err := svc.Delete(context.Background(), "64b0c0ffee0000000000cccc")
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestGetAll_UnknownStatus(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, &mockLockRepo{}, &mockRoomDirectory{}, &mockPublisher{})

	_, _, err := svc.GetAll(context.Background(), "pending", 10, 0)
	assertCode(t, err, apperrors.CodeInvalidInput)
}

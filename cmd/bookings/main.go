package main

import (
	"context"
	"time"

	"roombook/internal/bookings/auth"
	"roombook/internal/bookings/handler"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/service"
	"roombook/internal/bookings/validator"
	"roombook/internal/directory"
	"roombook/pkg/app"
	"roombook/pkg/config"
	"roombook/pkg/events"
	"roombook/pkg/token"
)

func main() {
	cfg := config.Load("bookings")
	cfg.SetMongo()

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewRoomLockRepository(cfg)
	ensureIndexes(cfg, bookingRepo, lockRepo)

	users := directory.NewUserDirectory(cfg.UsersServiceURL, cfg.DirectoryTimeout, cfg.Log)
	rooms := directory.NewRoomDirectory(cfg.RoomsServiceURL, cfg.DirectoryTimeout, cfg.Log)

	publisher := newPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Warn("Failed to close event publisher", "error", err)
		}
	}()

	bookingValidator := validator.NewBookingValidator(
		cfg.MinBookingDuration,
		cfg.MaxBookingDuration,
		cfg.EnforceFutureStart,
		cfg.Log,
	)
	checker := service.NewAvailabilityChecker(bookingRepo)
	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		checker,
		bookingValidator,
		users,
		rooms,
		publisher,
		cfg,
	)

	gate := auth.NewGate(users, cfg.Log)
	bookingHandler := handler.NewBookingHandler(bookingService, gate, cfg.Log)

	application := app.NewApplication(cfg)
	application.SetApp(bookingHandler, token.NewManager(cfg.JWTSecret))
	application.Run()
}

func ensureIndexes(cfg *config.Config, bookingRepo repository.BookingRepository, lockRepo repository.RoomLockRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := bookingRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create booking indexes", "error", err)
	}
	if err := lockRepo.EnsureIndexes(ctx); err != nil {
		cfg.Log.Fatal("Failed to create room lock indexes", "error", err)
	}
	cfg.Log.Info("Database indexes ensured")
}

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("No Kafka brokers configured, booking events disabled")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaBookingTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to configure event publisher", "error", err)
	}
	cfg.Log.Info("Booking events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaBookingTopic)
	return publisher
}

package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roombook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8003"

	DefaultUsersServiceURL  = "http://users-service:8001"
	DefaultRoomsServiceURL  = "http://rooms-service:8002"
	DefaultDirectoryTimeout = 5 * time.Second

	DefaultMinBookingDuration = 15 * time.Minute
	DefaultMaxBookingDuration = 8 * time.Hour
	DefaultEnforceFutureStart = true
	DefaultLockTTL            = 10 * time.Second

	DefaultKafkaBookingTopic = "booking-events"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100
)

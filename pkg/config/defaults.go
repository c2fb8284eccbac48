package config

import "time"

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "hotelbooking"
	DefaultMongoConnTimeout  = 10 * time.Second
	DefaultStorageDriver     = StorageMongo
	DefaultPriceToPointSeed  = 100.0

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultBookingLockTTL           = 10 * time.Second
	DefaultBookingLockRetryAttempts = 5
	DefaultBookingLockRetryDelay    = 100 * time.Millisecond

	DefaultKafkaEnabled         = false
	DefaultKafkaBookingTopic    = "booking-events"
	DefaultKafkaBookingDLQTopic = "booking-events-dlq"

	DefaultPaginationLimit = 100
)

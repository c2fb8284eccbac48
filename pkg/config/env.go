package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvStorageDriver     = "STORAGE_DRIVER"
	EnvSeedFile          = "STORAGE_SEED_FILE"
	EnvPriceToPointSeed  = "PRICE_TO_POINT_SEED"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvBookingLockTTL           = "BOOKING_LOCK_TTL"
	EnvBookingLockRetryAttempts = "BOOKING_LOCK_RETRY_ATTEMPTS"
	EnvBookingLockRetryDelay    = "BOOKING_LOCK_RETRY_DELAY"

	EnvKafkaEnabled         = "KAFKA_ENABLED"
	EnvKafkaBookingTopic    = "KAFKA_BOOKING_TOPIC"
	EnvKafkaBookingDLQTopic = "KAFKA_BOOKING_DLQ_TOPIC"
)

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"hotelbooking/pkg/client"
	"hotelbooking/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration
	StorageDriver     string
	SeedFile          string
	PriceToPointSeed  float64

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	BookingLockTTL           time.Duration
	BookingLockRetryAttempts int
	BookingLockRetryDelay    time.Duration

	KafkaEnabled         bool
	KafkaBookingTopic    string
	KafkaBookingDLQTopic string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		StorageDriver:     getEnvStr(EnvStorageDriver, DefaultStorageDriver),
		SeedFile:          getEnvStr(EnvSeedFile, ""),
		PriceToPointSeed:  getEnvFloat(EnvPriceToPointSeed, DefaultPriceToPointSeed),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		BookingLockTTL:           getEnvDuration(EnvBookingLockTTL, DefaultBookingLockTTL),
		BookingLockRetryAttempts: getEnvNum(EnvBookingLockRetryAttempts, DefaultBookingLockRetryAttempts),
		BookingLockRetryDelay:    getEnvDuration(EnvBookingLockRetryDelay, DefaultBookingLockRetryDelay),

		KafkaEnabled:         getEnvBool(EnvKafkaEnabled, DefaultKafkaEnabled),
		KafkaBookingTopic:    getEnvStr(EnvKafkaBookingTopic, DefaultKafkaBookingTopic),
		KafkaBookingDLQTopic: getEnvStr(EnvKafkaBookingDLQTopic, DefaultKafkaBookingDLQTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// Default returns a configuration built only from defaults, with the given
// logger. Used by tests and tools that never touch the environment.
func Default(log *logger.Logger) *Config {
	return &Config{
		MongoURI:                 DefaultMongoURI,
		MongoDatabaseName:        DefaultMongoDatabaseName,
		MongoConnTimeout:         DefaultMongoConnTimeout,
		StorageDriver:            StorageMemory,
		PriceToPointSeed:         DefaultPriceToPointSeed,
		Port:                     DefaultPort,
		RateLimitRequests:        DefaultRateLimitRequests,
		RateLimitWindow:          DefaultRateLimitWindow,
		RequestTimeout:           DefaultRequestTimeout,
		IdempotencyTTL:           DefaultIdempotencyTTL,
		MaxRequestSize:           DefaultMaxRequestSize,
		ReadTimeout:              DefaultReadTimeout,
		WriteTimeout:             DefaultWriteTimeout,
		IdleTimeout:              DefaultIdleTimeout,
		ShutdownTimeout:          DefaultShutdownTimeout,
		BookingLockTTL:           DefaultBookingLockTTL,
		BookingLockRetryAttempts: DefaultBookingLockRetryAttempts,
		BookingLockRetryDelay:    DefaultBookingLockRetryDelay,
		KafkaEnabled:             false,
		KafkaBookingTopic:        DefaultKafkaBookingTopic,
		KafkaBookingDLQTopic:     DefaultKafkaBookingDLQTopic,
		Log:                      log,
		Client:                   client.NewClient(),
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) UsesMongo() bool {
	return cfg.StorageDriver == StorageMongo
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.StorageDriver != StorageMongo && cfg.StorageDriver != StorageMemory {
		errors = append(errors, fmt.Sprintf("StorageDriver must be %q or %q, got: %s", StorageMongo, StorageMemory, cfg.StorageDriver))
	}

	if cfg.StorageDriver == StorageMongo {
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	}

	if cfg.PriceToPointSeed <= 0 {
		errors = append(errors, fmt.Sprintf("PriceToPointSeed must be positive, got: %g", cfg.PriceToPointSeed))
	}

	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.BookingLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("BookingLockTTL must be positive, got: %s", cfg.BookingLockTTL))
	}
	if cfg.BookingLockRetryAttempts < 1 {
		errors = append(errors, fmt.Sprintf("BookingLockRetryAttempts must be at least 1, got: %d", cfg.BookingLockRetryAttempts))
	}
	if cfg.BookingLockRetryDelay < 0 {
		errors = append(errors, fmt.Sprintf("BookingLockRetryDelay cannot be negative, got: %s", cfg.BookingLockRetryDelay))
	}

	if cfg.KafkaEnabled && cfg.KafkaBookingTopic == "" {
		errors = append(errors, "KafkaBookingTopic cannot be empty when Kafka is enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"storage_driver", cfg.StorageDriver,
		"seed_file", cfg.SeedFile,
		"price_to_point_seed", cfg.PriceToPointSeed,
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"booking_lock_ttl", cfg.BookingLockTTL,
		"booking_lock_retry_attempts", cfg.BookingLockRetryAttempts,
		"booking_lock_retry_delay", cfg.BookingLockRetryDelay,
		"kafka_enabled", cfg.KafkaEnabled,
		"kafka_booking_topic", cfg.KafkaBookingTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = 10
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}

package main

import (
	"os"

	"hotelbooking/internal/bookings/events"
	"hotelbooking/internal/bookings/handler"
	"hotelbooking/internal/bookings/repository"
	"hotelbooking/internal/bookings/repository/memory"
	"hotelbooking/internal/bookings/service"
	"hotelbooking/internal/bookings/validator"
	"hotelbooking/pkg/app"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/kafka"
	kafka_config "hotelbooking/pkg/kafka/config"
	kafka_middleware "hotelbooking/pkg/kafka/middleware"
	"hotelbooking/pkg/model"
)

const ServiceName = "bookings"

type repositories struct {
	bookings    repository.BookingRepository
	locks       repository.BookingLockRepository
	hotels      repository.HotelRepository
	users       repository.UserRepository
	redeemables repository.RedeemableRepository
	settings    repository.SettingRepository
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting Bookings service", "storage_driver", cfg.StorageDriver)

	repos, ready := initRepositories(cfg)
	publisher := initPublisher(cfg)

	bookingService := service.NewBookingService(service.Dependencies{
		Bookings:    repos.bookings,
		Locks:       repos.locks,
		Hotels:      repos.hotels,
		Users:       repos.users,
		Redeemables: repos.redeemables,
		Settings:    repos.settings,
		Events:      publisher,
		Validator:   validator.NewBookingValidator(cfg.Log),
	}, cfg)
	settingsService := service.NewSettingsService(repos.settings, cfg)
	cfg.Log.Info("Booking service initialized")

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewBookingHandler(bookingService, settingsService, cfg.Log),
		handler.NewHealthHandler(ready, cfg.Log),
		service.NewActorResolver(repos.users),
	)
	serverApp.OnShutdown(cfg.GracefulShutdown)
	serverApp.OnShutdown(func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	})
	serverApp.Run()
}

func initRepositories(cfg *config.Config) (*repositories, handler.ReadinessCheck) {
	if cfg.UsesMongo() {
		cfg.SetMongo()
		cfg.Log.Info("Using Mongo storage", "database", cfg.MongoDatabaseName)
		return &repositories{
			bookings:    repository.NewMongoBookingRepository(cfg),
			locks:       repository.NewMongoBookingLockRepository(cfg),
			hotels:      repository.NewMongoHotelRepository(cfg),
			users:       repository.NewMongoUserRepository(cfg),
			redeemables: repository.NewMongoRedeemableRepository(cfg),
			settings:    repository.NewMongoSettingRepository(cfg),
		}, handler.MongoReadiness(cfg.Client.Mongo)
	}

	store := memory.NewStore()
	store.PutSetting(model.SettingPriceToPoint, cfg.PriceToPointSeed)
	if cfg.SeedFile != "" {
		f, err := os.Open(cfg.SeedFile)
		if err != nil {
			cfg.Log.Fatal("Failed to open seed file", "path", cfg.SeedFile, "error", err)
		}
		err = store.LoadSeed(f)
		_ = f.Close()
		if err != nil {
			cfg.Log.Fatal("Failed to load seed file", "path", cfg.SeedFile, "error", err)
		}
		cfg.Log.Info("Loaded seed data", "path", cfg.SeedFile)
	}
	cfg.Log.Warn("Using in-memory storage, data is lost on restart")

	return &repositories{
		bookings:    memory.NewBookingRepository(store),
		locks:       memory.NewBookingLockRepository(store),
		hotels:      memory.NewHotelRepository(store),
		users:       memory.NewUserRepository(store),
		redeemables: memory.NewRedeemableRepository(store),
		settings:    memory.NewSettingRepository(store),
	}, nil
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events are dropped")
		return events.NewNoopPublisher()
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaBookingTopic, cfg.KafkaBookingDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	}

	cfg.Log.Info("Kafka publisher initialized", "topic", producer.Topic())
	return events.NewKafkaPublisher(producer)
}

package main

import (
	"cafebook/internal/auth"
	"cafebook/internal/bookings/events"
	"cafebook/internal/bookings/handler"
	"cafebook/internal/bookings/repository"
	"cafebook/internal/bookings/service"
	"cafebook/internal/bookings/validator"
	"cafebook/pkg/app"
	"cafebook/pkg/config"
	"cafebook/pkg/contracts"
	"cafebook/pkg/kafka"
	kafka_config "cafebook/pkg/kafka/config"
)

const ServiceName = "cafebook"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()

	cfg.Log.Info("Starting cafebook service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	bookingService := initServices(cfg, publisher)

	authClient := auth.NewAuthClient(cfg.AuthURL, cfg.AuthAnonKey)
	requireAuth := auth.RequireAuth(authClient, cfg.Log)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		contracts.Handlers{
			handler.NewBookingHandler(bookingService, requireAuth, cfg.Log),
			auth.NewLoginHandler(authClient, cfg.Log),
		},
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Warn("Kafka configuration invalid, booking events disabled", "error", err)
		return events.NopPublisher{}
	}

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQ)
	if err != nil {
		cfg.Log.Warn("Kafka producer unavailable, booking events disabled", "error", err)
		return events.NopPublisher{}
	}

	cfg.Log.Info("Booking event publisher initialized", "topic", cfg.BookingEventsTopic)
	return events.NewKafkaPublisher(producer, ServiceName, cfg.Log)
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)

	bookingService, err := service.NewBookingService(
		bookingRepo,
		lockRepo,
		bookingValidator,
		publisher,
		cfg,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize booking service", "error", err)
	}

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}

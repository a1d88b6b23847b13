package main

import (
	bookingshandler "salonhub/internal/bookings/handler"
	bookingsrepository "salonhub/internal/bookings/repository"
	bookingsservice "salonhub/internal/bookings/service"
	bookingsvalidator "salonhub/internal/bookings/validator"
	catalogrepository "salonhub/internal/catalog/repository"
	reviewshandler "salonhub/internal/reviews/handler"
	reviewsrepository "salonhub/internal/reviews/repository"
	reviewsservice "salonhub/internal/reviews/service"
	reviewsvalidator "salonhub/internal/reviews/validator"
	"salonhub/pkg/app"
	"salonhub/pkg/config"
	"salonhub/pkg/contracts"
	"salonhub/pkg/events"
	"salonhub/pkg/kafka"
	kafkaconfig "salonhub/pkg/kafka/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	producer := initProducer(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	bookingService, reviewService := initServices(cfg, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(contracts.Compose(
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		bookingshandler.NewPlatformFeeHandler(bookingService, cfg.Log),
		reviewshandler.NewReviewHandler(reviewService, cfg.Log),
	))
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, events.TopicBookings, events.TopicBookingsDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) (bookingsservice.BookingService, reviewsservice.ReviewService) {
	bookingRepo := bookingsrepository.NewMongoBookingRepository(cfg)
	feeRepo := bookingsrepository.NewMongoPlatformFeeRepository(cfg)
	catalogRepo := catalogrepository.NewMongoServiceRepository(cfg)

	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		feeRepo,
		catalogRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		producer,
		cfg,
	)

	reviewRepo := reviewsrepository.NewMongoReviewRepository(cfg)
	reviewService := reviewsservice.NewReviewService(
		reviewRepo,
		bookingRepo,
		reviewsvalidator.NewReviewValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName)
	return bookingService, reviewService
}

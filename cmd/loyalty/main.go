package main

import (
	"context"
	"errors"

	"salonhub/internal/loyalty/consumer"
	"salonhub/internal/loyalty/handler"
	"salonhub/internal/loyalty/repository"
	"salonhub/internal/loyalty/service"
	"salonhub/pkg/app"
	"salonhub/pkg/config"
	"salonhub/pkg/events"
	"salonhub/pkg/kafka"
	kafkaconfig "salonhub/pkg/kafka/config"
)

const (
	ServiceName     = "loyalty"
	ConsumerGroupID = "loyalty-accrual"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Loyalty service")

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, events.TopicLoyalty, events.TopicLoyaltyDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	loyaltyRepo := repository.NewMongoLoyaltyRepository(cfg)
	loyaltyService := service.NewLoyaltyService(loyaltyRepo, producer, cfg)

	bookingConsumer, err := kafka.NewConsumer(
		kafkaCfg,
		events.TopicBookings,
		ConsumerGroupID,
		events.TopicBookingsDLQ,
		consumer.NewBookingEventsHandler(loyaltyService, cfg.Log),
		cfg.Log,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := bookingConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Kafka consumer stopped", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewLoyaltyHandler(loyaltyService, cfg.Log))
	serverApp.Run()

	cancel()
	if err := bookingConsumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
}

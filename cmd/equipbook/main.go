package main

import (
	"context"
	"errors"

	"equipbook/internal/bookings/controller"
	bookingserrors "equipbook/internal/bookings/errors"
	"equipbook/internal/bookings/events"
	"equipbook/internal/bookings/handler"
	"equipbook/internal/bookings/notify"
	"equipbook/internal/bookings/store"
	"equipbook/internal/bookings/validator"
	"equipbook/pkg/app"
	"equipbook/pkg/config"
	"equipbook/pkg/kafka"
	"equipbook/pkg/logger"
)

const ServiceName = "equipbook"

// logAlerter stands in for a blocking UI alert on the server: the rejection
// already travels to the caller as a 403, the alert is just logged.
type logAlerter struct {
	log *logger.Logger
}

func (a logAlerter) Alert(message string) {
	a.log.Warn("Deletion rejected", "alert", message)
}

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Equipbook service")
	cfg.SetMongo()

	storeCtx, stopStore := context.WithCancel(context.Background())
	bookingStore := store.NewMongoStore(cfg)
	go func() {
		if err := bookingStore.Run(storeCtx); err != nil && !errors.Is(err, bookingserrors.ErrStoreClosed) {
			cfg.Log.Error("Booking feed terminated", "error", err)
		}
	}()

	producer := initProducer(cfg)
	notices := notify.NewCenter(cfg.NotificationTTL)

	bookingController := controller.New(
		bookingStore,
		validator.NewDraftValidator(cfg.Log),
		notices,
		events.NewPublisher(producer, ServiceName, cfg.Log),
		logAlerter{log: cfg.Log},
		cfg.Log,
	)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewBookingHandler(bookingController, bookingStore, cfg.Log),
		handler.NewStreamHandler(bookingStore, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)

	serverApp.OnShutdown(stopStore)
	serverApp.OnShutdown(notices.Stop)
	if producer != nil {
		serverApp.OnShutdown(func() {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		})
	}
	serverApp.OnShutdown(func() { cfg.Client.GracefulShutdown(cfg.Log) })

	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	if len(cfg.KafkaBrokers) == 0 {
		cfg.Log.Info("Kafka brokers not configured, booking events disabled")
		return nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Booking events enabled", "topic", cfg.KafkaTopic)
	return producer
}

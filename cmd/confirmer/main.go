package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"cafebook/internal/confirmer"
	"cafebook/pkg/config"
	"cafebook/pkg/kafka"
	kafka_config "cafebook/pkg/kafka/config"
)

const (
	ServiceName     = "confirmer"
	ConsumerGroupID = "cafebook-confirmer"
)

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting confirmation worker")

	kafkaCfg := kafka_config.Load()
	if err := kafkaCfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	processor := confirmer.NewProcessor(nil, cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		ConsumerGroupID,
		cfg.BookingEventsDLQ,
		processor.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	cfg.Log.Info("Consuming booking events",
		"topic", cfg.BookingEventsTopic,
		"group_id", ConsumerGroupID,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}

	cfg.Log.Info("Confirmation worker stopped")
}

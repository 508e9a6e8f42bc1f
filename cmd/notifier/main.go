package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/shamian84/college-appointment-system/internal/appointments/notifier"
	"github.com/shamian84/college-appointment-system/pkg/config"
	"github.com/shamian84/college-appointment-system/pkg/kafka"
	kafkaconfig "github.com/shamian84/college-appointment-system/pkg/kafka/config"
	kafkamiddleware "github.com/shamian84/college-appointment-system/pkg/kafka/middleware"
)

const ServiceName = "appointment-notifier"

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)
	if !kafkaCfg.Enabled {
		cfg.Log.Fatal("Kafka is disabled, nothing to consume")
	}

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.Log,
		kafkaCfg.NotificationsTopic,
		kafkaCfg.ConsumerGroupID,
		kafkaCfg.NotificationsDLQTopic,
		notifier.NewDeliveryHandler(cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	metrics := &kafkamiddleware.Metrics{}
	if kafkaCfg.EnableMiddleware {
		consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(kafkamiddleware.MetricsConsumerMiddleware(metrics))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notification consumer",
		"topic", kafkaCfg.NotificationsTopic,
		"group", kafkaCfg.ConsumerGroupID,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped unexpectedly", "error", err)
	}

	cfg.Log.Info("Shutting down notification consumer")
	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Notification consumer metrics", metrics.Snapshot().LogAttrs()...)
}

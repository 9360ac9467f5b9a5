package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/tair/clothing-store/kafka"
	"github.com/tair/clothing-store/pkg/logger"
	"github.com/tair/clothing-store/pkg/money"
	"github.com/tair/clothing-store/pkg/tracing"
)

// The notifier consumes purchase lifecycle events and logs what a real
// deployment would email to the customer.
func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "notifier-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	}

	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	groupID := getEnv("KAFKA_GROUP_ID", "notifier")

	consumer, err := kafka.NewConsumer(brokers, groupID, []string{kafka.TopicPurchaseEvents})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	consumer.RegisterHandler(kafka.EventTypePurchaseCreated, handlePurchaseCreated)
	consumer.RegisterHandler(kafka.EventTypePurchaseCancelled, handlePurchaseCancelled)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down notifier...")
	cancel()

	if tp != nil {
		if err := tracing.Shutdown(context.Background(), tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}
}

func handlePurchaseCreated(ctx context.Context, event kafka.PurchaseEvent) error {
	var total int64
	for _, item := range event.Items {
		total += item.UnitPriceCents * int64(item.Quantity)
	}

	logger.Info(ctx).
		Str("reference", event.Reference).
		Uint("customer_id", event.CustomerID).
		Int("items", len(event.Items)).
		Str("total", money.ToDisplay(total)).
		Msg("Purchase confirmation notification")

	return nil
}

func handlePurchaseCancelled(ctx context.Context, event kafka.PurchaseEvent) error {
	logger.Info(ctx).
		Str("reference", event.Reference).
		Uint("customer_id", event.CustomerID).
		Msg("Purchase cancellation notification")

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

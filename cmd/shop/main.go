package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tair/clothing-store/internal/customer"
	customerdomain "github.com/tair/clothing-store/internal/customer/domain"
	"github.com/tair/clothing-store/internal/product"
	productdomain "github.com/tair/clothing-store/internal/product/domain"
	"github.com/tair/clothing-store/internal/purchase"
	purchasedomain "github.com/tair/clothing-store/internal/purchase/domain"
	"github.com/tair/clothing-store/kafka"
	"github.com/tair/clothing-store/pkg/database"
	"github.com/tair/clothing-store/pkg/logger"
	"github.com/tair/clothing-store/pkg/middleware"
	"github.com/tair/clothing-store/pkg/tracing"

	_ "github.com/tair/clothing-store/docs"
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "shop-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting shop service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "shopdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Separate raw connection for health checks
	sqlDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open health check connection")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&customerdomain.Customer{},
		&productdomain.Product{},
		&purchasedomain.Purchase{},
		&purchasedomain.LineItem{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Kafka publisher is optional; without brokers the purchase flow still
	// works, events are just skipped
	var publisher *kafka.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to initialize Kafka publisher, continuing without events")
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// Initialize handlers with Wire DI
	customerHandler, err := customer.InitializeHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize customer handler")
	}

	productHandler, err := product.InitializeHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize product handler")
	}

	purchaseHandler, err := purchase.InitializeHandler(db, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize purchase handler")
	}

	// Setup router
	router := mux.NewRouter()

	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(func(next http.Handler) http.Handler {
		return middleware.Tracing("http-request", next)
	})

	customerHandler.RegisterRoutes(router)
	productHandler.RegisterRoutes(router)
	purchaseHandler.RegisterRoutes(router)

	customerHandler.RegisterHealthCheck(router, sqlDB)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	httpPort := getEnv("HTTP_PORT", "8080")
	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: c.Handler(router),
	}

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger_endpoint", "/swagger/index.html").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

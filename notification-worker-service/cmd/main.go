package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopit/notification-worker-service/internal/app/notification-worker/config"
	"shopit/notification-worker-service/internal/app/notification-worker/handler"
	"shopit/notification-worker-service/internal/app/notification-worker/processor"
	"shopit/notification-worker-service/internal/app/notification-worker/repository"
	"shopit/notification-worker-service/internal/app/notification-worker/service"
	"shopit/pkg/logger"
	"shopit/pkg/mailer"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serviceName = "notification-worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init(serviceName, logLevel)

	logstashAddr := os.Getenv("LOGSTASH_ADDR")
	if logstashAddr != "" {
		if err := logger.InitLogstash(logstashAddr, serviceName, logLevel); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer disconnectCancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().Str("database", cfg.MongoDB.Database).Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)

	redisClient, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	smtpMailer := mailer.NewSMTPMailer(mailer.Config{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	})

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	processedRepo := repository.NewProcessedEventRepository(redisClient, cfg.Redis.DedupTTL)

	notificationSvc := service.NewNotificationService(processedRepo, smtpMailer, cfg.Notification.FrontendURL)
	maintenanceSvc := service.NewMaintenanceService(
		userRepo,
		productRepo,
		smtpMailer,
		cfg.Notification.AdminEmail,
		cfg.Notification.LowStockThreshold,
	)

	kafkaConsumer := processor.NewKafkaConsumer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.GroupID,
		cfg.Kafka.MinBytes,
		cfg.Kafka.MaxBytes,
		notificationSvc,
	)
	kafkaConsumer.Start(ctx)

	cronScheduler := processor.NewCronScheduler(maintenanceSvc)
	if err := cronScheduler.Start(ctx, cfg.Cron); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start cron scheduler")
	}

	healthHandler := handler.NewHealthCheckHandler(mongoClient, redisClient, kafkaConsumer)

	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:              cfg.HealthAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.HealthAddr).Msg("Starting healthcheck HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Str("group", cfg.Kafka.GroupID).
		Msg("Notification Worker is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Notification Worker...")

	cancel()
	cronScheduler.Stop()
	kafkaConsumer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server forced to shutdown")
	}

	logger.Info().Msg("Notification Worker stopped gracefully")
}

func connectMongoDB(cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var client *mongo.Client
	var err error

	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, clientOptions)
		cancel()

		if err == nil {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
			err = client.Ping(pingCtx, nil)
			pingCancel()
			if err == nil {
				return client, nil
			}
		}

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, err
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	for i := 0; i < 10; i++ {
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		logger.Warn().Int("attempt", i+1).Msg("Failed to connect to Redis, retrying...")
		time.Sleep(3 * time.Second)
	}

	_ = client.Close()
	return nil, fmt.Errorf("failed to connect to Redis after 10 attempts")
}

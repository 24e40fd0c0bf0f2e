package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopit/pkg/logger"
	"shopit/pkg/mailer"
	"shopit/storefront-service/internal/app/storefront/config"
	"shopit/storefront-service/internal/app/storefront/handler"
	"shopit/storefront-service/internal/app/storefront/infrastructure/cache"
	"shopit/storefront-service/internal/app/storefront/infrastructure/imagehost"
	"shopit/storefront-service/internal/app/storefront/infrastructure/messaging"
	"shopit/storefront-service/internal/app/storefront/infrastructure/payment"
	"shopit/storefront-service/internal/app/storefront/repository"
	"shopit/storefront-service/internal/app/storefront/service"
	"shopit/storefront-service/internal/app/storefront/util"
)

const serviceName = "storefront-service"

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
		} else {
			logger.Info().Str("logstash_addr", logstashAddr).Msg("Connected to Logstash")
		}
	}

	mongoClient, err := connectMongoDB(cfg.MongoDB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
		}
	}()
	logger.Info().
		Str("database", cfg.MongoDB.Database).
		Msg("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB.Database)

	redisClient, err := util.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")

	kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer kafkaProducer.Close()
	logger.Info().
		Str("topic", cfg.Kafka.Topic).
		Msg("Initialized Kafka producer")

	imageHost, err := imagehost.NewCloudinaryHost(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize Cloudinary")
	}

	paymentGateway := payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.PublishableKey, cfg.Stripe.APIURL)

	smtpMailer := mailer.NewSMTPMailer(mailer.Config{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	})

	redisCache := cache.NewRedisCache(redisClient, cfg.Redis.ProductTTL)
	jwtManager := util.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiration)

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	authService := service.NewAuthService(
		userRepo,
		jwtManager,
		redisCache,
		imageHost,
		smtpMailer,
		kafkaProducer,
		service.AuthConfig{
			ResetTokenTTL: cfg.Catalog.ResetTokenTTL,
			FrontendURL:   cfg.Server.FrontendURL,
		},
	)
	userService := service.NewUserService(userRepo, imageHost, redisCache, cfg.JWT.Expiration)
	productService := service.NewProductService(productRepo, userRepo, redisCache, imageHost)
	orderService := service.NewOrderService(orderRepo, userRepo, kafkaProducer, redisCache)
	paymentService := service.NewPaymentService(paymentGateway)

	handlers := handler.Handlers{
		Auth: handler.NewAuthHandler(authService, userService, handler.CookieSettings{
			MaxAge: cfg.Cookie.MaxAge(),
			Secure: cfg.Cookie.Secure,
		}),
		Users:   handler.NewUserHandler(userService),
		Product: handler.NewProductHandler(productService, cfg.Catalog.ProductsPerPage),
		Order:   handler.NewOrderHandler(orderService),
		Payment: handler.NewPaymentHandler(paymentService),
	}
	router := handler.SetupRoutes(handlers, handler.NewAuthMiddleware(authService), cfg.Server.FrontendURL)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Storefront Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Storefront Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Storefront Service stopped gracefully")
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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexusdev/nexushomes-backend/internal/adapter/httpapi"
	"github.com/nexusdev/nexushomes-backend/internal/adapter/messaging/nats"
	"github.com/nexusdev/nexushomes-backend/internal/adapter/repository/cache"
	"github.com/nexusdev/nexushomes-backend/internal/adapter/repository/mongodb"
	"github.com/nexusdev/nexushomes-backend/internal/adapter/storage/imagekit"
	"github.com/nexusdev/nexushomes-backend/internal/adapter/storage/s3"
	"github.com/nexusdev/nexushomes-backend/internal/config"
	"github.com/nexusdev/nexushomes-backend/internal/listing/domain"
	"github.com/nexusdev/nexushomes-backend/internal/listing/usecase"
	"github.com/nexusdev/nexushomes-backend/internal/mailer"
	"github.com/nexusdev/nexushomes-backend/internal/platform/logger"
	"github.com/nexusdev/nexushomes-backend/internal/platform/tracer"
)

const serviceName = "nexushomes-listing"

func main() {
	cfg := config.MustLoad()

	log := logger.NewZapLogger(cfg.Logger.Level, cfg.Logger.Encoding)
	log.Infof("Configuration loaded: env=%s, http port=%s", cfg.Env, cfg.HTTPServer.Port)

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		tp, err := tracer.Init(ctx, serviceName, cfg.Tracing.OTLPEndpoint)
		if err != nil {
			log.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Errorf("Error shutting down tracer provider: %v", err)
			}
		}()
	}

	mongoClient, err := mongodb.NewClient(ctx, cfg.MongoDB.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Errorf("Error disconnecting from MongoDB: %v", err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)
	listingRepo := mongodb.NewListingRepository(db, log)

	redisClient, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	listingCache := cache.NewListingCache(redisClient, cfg.Redis.ListingTTL, cfg.Redis.ActiveTTL)

	publisher, err := nats.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer publisher.Close()

	var images domain.ImageStore
	switch cfg.Storage.Backend {
	case "s3":
		images, err = s3.NewStorage(
			cfg.Storage.MinIO.Endpoint,
			cfg.Storage.MinIO.AccessKey,
			cfg.Storage.MinIO.SecretKey,
			cfg.Storage.MinIO.Bucket,
			cfg.Storage.MinIO.UseSSL,
			log,
		)
		if err != nil {
			log.Fatalf("Failed to initialize S3 storage: %v", err)
		}
	default:
		images = imagekit.NewClient(imagekit.Config{
			UploadURL:  cfg.Storage.ImageKit.UploadURL,
			AuthURL:    cfg.Storage.ImageKit.AuthURL,
			PublicKey:  cfg.Storage.ImageKit.PublicKey,
			PrivateKey: cfg.Storage.ImageKit.PrivateKey,
			Timeout:    cfg.Storage.ImageKit.Timeout,
		}, log)
	}

	var mail usecase.Mailer
	if cfg.SMTP.Enabled {
		mail = mailer.New(mailer.Config{
			Host:        cfg.SMTP.Host,
			Port:        cfg.SMTP.Port,
			Username:    cfg.SMTP.Username,
			Password:    cfg.SMTP.Password,
			SenderEmail: cfg.SMTP.SenderEmail,
		})
	}

	service := usecase.NewListingUsecase(listingRepo, listingCache, publisher, log)
	handler := httpapi.NewListingHandler(service, images, mail, log)
	server := httpapi.NewServer(cfg.HTTPServer, handler, cfg.JWTSecret, log)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	received := <-quit
	log.Infof("Received shutdown signal: %v, shutting down", received)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Errorf("Error during HTTP server shutdown: %v", err)
	}

	log.Info("Application shut down successfully")
}

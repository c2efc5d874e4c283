package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"energia_assistant/internal/api"
	"energia_assistant/internal/collector"
	"energia_assistant/internal/config"
	"energia_assistant/internal/publisher"
	"energia_assistant/internal/service"
	"energia_assistant/internal/telemetry"
	"energia_assistant/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Init(logger.Options{Level: cfg.LogLevel, Directory: cfg.LogDir, MaxAge: cfg.LogFileMaxAge})
	logger.Info("Starting Energia Assistant")

	source, err := newSource(cfg)
	if err != nil {
		log.Fatal("Failed to initialize telemetry source:", err)
	}

	opts := []service.Option{}
	pub, err := publisher.New(publisher.Config{
		Broker:      cfg.MQTTBroker,
		ClientID:    cfg.MQTTClientID,
		TopicPrefix: cfg.MQTTTopicPrefix,
		QoS:         1,
		Retained:    cfg.MQTTRetained,
	})
	if err != nil {
		logger.Warnf("MQTT publisher disabled: %v", err)
	} else if pub != nil {
		defer pub.Close()
		opts = append(opts, service.WithPublisher(pub))
	}

	sender := collector.NewClient(cfg.CollectorURL, cfg.CollectorTimeoutDuration())
	svc := service.NewService(source, sender, opts...)

	router := api.NewRouter()
	api.SetupRoutes(router, svc)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Infof("Server starting on port %d", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced shutdown: %v", err)
	}

	logger.Info("Server stopped gracefully")
}

func newSource(cfg *config.Config) (telemetry.Source, error) {
	if cfg.TelemetrySource == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return telemetry.NewS3Source(ctx, cfg.S3Bucket, cfg.S3Key)
	}
	return telemetry.NewFileSource(cfg.MockPath), nil
}

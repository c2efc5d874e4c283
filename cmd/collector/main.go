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
	"energia_assistant/internal/config"
	"energia_assistant/internal/repository"
	"energia_assistant/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.Init(logger.Options{Level: cfg.LogLevel, Directory: cfg.LogDir, MaxAge: cfg.LogFileMaxAge})
	logger.Info("Starting collector service")

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to initialize store backend:", err)
	}
	defer db.Close()

	store, err := repository.NewStore(db)
	if err != nil {
		log.Fatal("Failed to create store:", err)
	}

	router := api.NewRouter()
	api.SetupCollectorRoutes(router, store)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.CollectorPort),
		Handler: router,
	}

	go func() {
		logger.Infof("Collector listening on port %d (store: %s)", cfg.CollectorPort, store.Type())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down collector...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Collector forced shutdown: %v", err)
	}

	logger.Info("Collector stopped gracefully")
}

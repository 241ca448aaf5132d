package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecofinds/internal/app"
	"ecofinds/internal/config"
	"ecofinds/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	defer logger.Sync()

	// Initialize application
	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application: %v", err)
	}
	defer application.Close()

	// Start server
	go func() {
		if err := application.Server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Server.Stop(ctx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}

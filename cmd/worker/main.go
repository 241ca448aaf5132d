package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

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

	// Initialize worker
	w, cleanup, err := app.NewWorker(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize worker: %v", err)
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	// Start worker
	logger.Info("Starting worker...")
	go func() {
		defer close(done)
		if err := w.Start(ctx); err != nil {
			logger.Error("Worker stopped: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-done:
	}

	logger.Info("Shutting down worker...")
	cancel()
	<-done
	w.Stop()
}

package main

import (
	"log"

	"ecofinds/internal/app"
	"ecofinds/internal/config"
	"ecofinds/internal/logger"
	"ecofinds/internal/serverless"

	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger := logger.New(cfg.LogLevel)
	defer logger.Sync()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application: %v", err)
	}
	defer application.Close()

	lambda.Start(serverless.New(application.Server.Router(), logger).Handle)
}

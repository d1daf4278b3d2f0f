package main

import (
	"log"

	"ordersync/internal/api"
	"ordersync/internal/config"
	"ordersync/internal/database"
	"ordersync/internal/logger"
	"ordersync/internal/notify"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize notifier
	notifier := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.OrderEventsTopic, logger)
	defer notifier.Close()

	// Initialize API server
	server := api.New(cfg, logger, db, notifier)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}

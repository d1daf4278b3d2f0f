package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ordersync/internal/config"
	"ordersync/internal/logger"
	"ordersync/internal/notify"
	"ordersync/internal/worker"

	"github.com/rs/cors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Websocket hub serving dashboard subscribers
	hub := notify.NewHub(logger)
	mux := http.NewServeMux()
	mux.Handle("/ws", hub.Handler())
	handler := cors.AllowAll().Handler(mux)

	go func() {
		addr := ":" + cfg.WSPort
		logger.Info("Websocket hub listening on " + addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			logger.Fatal("Websocket hub failed: %v", err)
		}
	}()

	// Initialize worker
	w := worker.New(cfg, logger, hub)

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	w.Stop()
}

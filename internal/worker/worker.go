package worker

import (
	"context"
	"encoding/json"
	"time"

	"ordersync/internal/config"
	"ordersync/internal/logger"
	"ordersync/internal/notify"

	"github.com/segmentio/kafka-go"
)

// Worker consumes order notification events and broadcasts them to the
// websocket hub so dashboard clients refresh live.
type Worker struct {
	config *config.Config
	logger *logger.Logger
	reader *kafka.Reader
	hub    *notify.Hub
}

func New(cfg *config.Config, logger *logger.Logger, hub *notify.Hub) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "ordersync-notifier",
		Topic:          cfg.OrderEventsTopic,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config: cfg,
		logger: logger,
		reader: reader,
		hub:    hub,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for order events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		var event notify.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		w.logger.Debug("Broadcasting %s event", event.Type)
		w.hub.Broadcast(context.Background(), message.Value)
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
	w.hub.Close()
}

package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"ordersync/internal/logger"
)

// KafkaNotifier publishes order events to the notification topic consumed
// by the fan-out worker. Publish failures are logged and swallowed.
type KafkaNotifier struct {
	writer *kafka.Writer
	logger *logger.Logger
}

func NewKafkaNotifier(brokers, topic string, logger *logger.Logger) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 5 * time.Second,
	}
	return &KafkaNotifier{
		writer: writer,
		logger: logger,
	}
}

func (n *KafkaNotifier) OrderCreated(ctx context.Context) {
	n.publish(ctx, Event{Type: EventNewOrder, Timestamp: time.Now()})
}

func (n *KafkaNotifier) OrderUpdated(ctx context.Context) {
	n.publish(ctx, Event{Type: EventOrderUpdate, Timestamp: time.Now()})
}

func (n *KafkaNotifier) SyncStatus(ctx context.Context, active bool) {
	n.publish(ctx, Event{Type: EventSyncStatus, Active: &active, Timestamp: time.Now()})
}

func (n *KafkaNotifier) publish(ctx context.Context, event Event) {
	value, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("Failed to encode %s event: %v", event.Type, err)
		return
	}
	if err := n.writer.WriteMessages(ctx, kafka.Message{Value: value}); err != nil {
		n.logger.Error("Failed to publish %s event: %v", event.Type, err)
	}
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

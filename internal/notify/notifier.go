package notify

import (
	"context"
	"time"
)

// Event names mirror the messages the dashboard subscribes to.
const (
	EventNewOrder    = "new-order"
	EventOrderUpdate = "on-order-update"
	EventSyncStatus  = "sync-status"
)

type Event struct {
	Type      string    `json:"type"`
	Active    *bool     `json:"active,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier pushes reconciliation events to subscribed clients. All calls
// are fire-and-forget: a failed notification never affects the
// reconciliation outcome.
type Notifier interface {
	OrderCreated(ctx context.Context)
	OrderUpdated(ctx context.Context)
	SyncStatus(ctx context.Context, active bool)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) OrderCreated(ctx context.Context)            {}
func (NopNotifier) OrderUpdated(ctx context.Context)            {}
func (NopNotifier) SyncStatus(ctx context.Context, active bool) {}

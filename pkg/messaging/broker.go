package messaging

import (
	"context"
)

// Broker defines the interface for message brokers. The engine only
// produces events; consumers live in other services.
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// Channel names used by the notification engine.
const (
	ChannelNotifications = "notifications"
)

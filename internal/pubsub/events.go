// Package pubsub fans out events (log lines, settings reloads, document
// changes) from background goroutines to any number of listeners.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened.
type EventType string

const (
	// LoggedEvent carries a formatted log line.
	LoggedEvent EventType = "logged"
	// ReloadedEvent carries a freshly resolved settings snapshot.
	ReloadedEvent EventType = "reloaded"
	// ChangedEvent signals that a watched document changed on disk.
	ChangedEvent EventType = "changed"
)

// Event is a published value stamped with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts events for delivery.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}

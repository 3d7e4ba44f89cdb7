// Package pubsub provides a generic publish/subscribe event system.
// It carries log entries and configuration-change notifications between
// the model layer and whatever front end is driving it.
package pubsub

import (
	"context"
	"time"
)

// EventType classifies a published event.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"
)

// Event is a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}

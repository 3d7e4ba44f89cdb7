package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 64

// Broker is a generic pub/sub event broker. Publishing never blocks:
// subscribers that fall behind have events dropped rather than stalling
// the publisher.
type Broker[T any] struct {
	mu     sync.RWMutex
	subs   map[int]chan Event[T]
	nextID int
	closed bool
	buffer int
}

// NewBroker creates a broker with the default per-subscriber buffer (64).
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a broker with a custom per-subscriber buffer.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:   make(map[int]chan Event[T]),
		buffer: size,
	}
}

// Subscribe registers a new subscription channel. The subscription is
// removed and its channel closed when ctx is cancelled. Subscribing to a
// closed broker returns an already-closed channel.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	id := b.nextID
	b.nextID++
	sub := make(chan Event[T], b.buffer)
	b.subs[id] = sub

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.closed {
			return
		}
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}()

	return sub
}

// Publish delivers an event to every subscriber. Events are dropped for
// subscribers whose buffer is full.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	for _, sub := range b.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

// Close shuts down the broker and closes all subscriber channels.
// Close is idempotent.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub)
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

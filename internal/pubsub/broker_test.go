package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBroker_SubscribeReceivesPublished(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)

	broker.Publish(UpdatedEvent, "machine.yaml")

	select {
	case event := <-ch:
		require.Equal(t, "machine.yaml", event.Payload)
		require.Equal(t, UpdatedEvent, event.Type)
		require.False(t, event.Timestamp.IsZero())
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "timeout waiting for event")
	}
}

func TestBroker_FanOut(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx := context.Background()

	ch1 := broker.Subscribe(ctx)
	ch2 := broker.Subscribe(ctx)

	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(CreatedEvent, 7)

	for i, ch := range []<-chan Event[int]{ch1, ch2} {
		select {
		case event := <-ch:
			require.Equal(t, 7, event.Payload, "subscriber %d", i)
		case <-time.After(100 * time.Millisecond):
			require.Fail(t, "timeout waiting for event", "subscriber %d", i)
		}
	}
}

func TestBroker_ContextCancelRemovesSubscription(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())

	ch := broker.Subscribe(ctx)
	require.Equal(t, 1, broker.SubscriberCount())

	cancel()
	require.Eventually(t, func() bool {
		return broker.SubscriberCount() == 0
	}, time.Second, 10*time.Millisecond)

	_, ok := <-ch
	require.False(t, ok, "channel should be closed")
}

func TestBroker_PublishNeverBlocks(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())

	broker.Publish(UpdatedEvent, 1)

	done := make(chan struct{})
	go func() {
		broker.Publish(UpdatedEvent, 2)
		broker.Publish(UpdatedEvent, 3)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "Publish blocked on a full subscriber")
	}

	event := <-ch
	require.Equal(t, 1, event.Payload, "overflow events are dropped, not queued")
}

func TestBroker_Close(t *testing.T) {
	broker := NewBroker[string]()

	ctx := context.Background()
	ch1 := broker.Subscribe(ctx)
	ch2 := broker.Subscribe(ctx)

	broker.Close()

	_, ok1 := <-ch1
	_, ok2 := <-ch2
	require.False(t, ok1)
	require.False(t, ok2)
	require.Equal(t, 0, broker.SubscriberCount())

	ch3 := broker.Subscribe(ctx)
	_, ok3 := <-ch3
	require.False(t, ok3, "subscribe after close should return a closed channel")

	broker.Publish(UpdatedEvent, "ignored") // must not panic
}

func TestBroker_CloseIdempotent(t *testing.T) {
	broker := NewBroker[string]()
	ch := broker.Subscribe(context.Background())

	broker.Close()
	broker.Close()

	_, ok := <-ch
	require.False(t, ok)
}

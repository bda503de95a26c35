package events

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryDispatcher(t *testing.T) {
	t.Parallel()

	t.Run("delivers only to matching subscribers", func(t *testing.T) {
		dispatcher := NewInMemoryDispatcher()

		var registrations, cancellations int
		dispatcher.Subscribe(EventRegistrationCompleted, func(_ context.Context, _ Event) error {
			registrations++
			return nil
		})
		dispatcher.Subscribe(EventTicketCancelled, func(_ context.Context, _ Event) error {
			cancellations++
			return nil
		})

		if err := dispatcher.Publish(context.Background(), Event{Type: EventRegistrationCompleted}); err != nil {
			t.Fatalf("publish: %v", err)
		}
		if registrations != 1 || cancellations != 0 {
			t.Fatalf("unexpected deliveries: %d/%d", registrations, cancellations)
		}
	})

	t.Run("handler errors do not reach the publisher", func(t *testing.T) {
		dispatcher := NewInMemoryDispatcher()

		var second bool
		dispatcher.Subscribe(EventPublished, func(_ context.Context, _ Event) error {
			return errors.New("handler failure")
		})
		dispatcher.Subscribe(EventPublished, func(_ context.Context, _ Event) error {
			second = true
			return nil
		})

		if err := dispatcher.Publish(context.Background(), Event{Type: EventPublished}); err != nil {
			t.Fatalf("publish must swallow handler errors, got %v", err)
		}
		if !second {
			t.Fatal("later handlers must still run after a failure")
		}
	})

	t.Run("publishing with no subscribers is a no-op", func(t *testing.T) {
		dispatcher := NewInMemoryDispatcher()
		if err := dispatcher.Publish(context.Background(), Event{Type: EventDeleted}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	})
}

package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishRunsHandlersInOrder(t *testing.T) {
	bus := NewBus()
	var order []int
	bus.Subscribe(MatchDayPlayed, func(context.Context, Event) error {
		order = append(order, 1)
		return nil
	})
	bus.Subscribe(MatchDayPlayed, func(context.Context, Event) error {
		order = append(order, 2)
		return nil
	})

	if err := bus.Publish(context.Background(), Event{Name: MatchDayPlayed}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("handlers ran out of order: %v", order)
	}
}

func TestPublishStopsOnFirstError(t *testing.T) {
	bus := NewBus()
	boom := errors.New("boom")
	reached := false
	bus.Subscribe(SeasonCompleted, func(context.Context, Event) error { return boom })
	bus.Subscribe(SeasonCompleted, func(context.Context, Event) error {
		reached = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{Name: SeasonCompleted})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the handler error, got %v", err)
	}
	if reached {
		t.Fatal("later handlers must not run after an error")
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	if err := bus.Publish(context.Background(), Event{Name: GameSaved, Payload: "slot1"}); err != nil {
		t.Fatalf("publish without subscribers: %v", err)
	}
}

func TestPayloadReachesHandler(t *testing.T) {
	bus := NewBus()
	var got any
	bus.Subscribe(SeasonStarted, func(_ context.Context, e Event) error {
		got = e.Payload
		return nil
	})
	if err := bus.Publish(context.Background(), Event{Name: SeasonStarted, Payload: 3}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got != 3 {
		t.Fatalf("payload = %v, want 3", got)
	}
}

package events

import (
	"context"
	"sync"
)

// Event names published by the game orchestrator.
const (
	MatchDayPlayed  = "MatchDayPlayed"
	SeasonCompleted = "SeasonCompleted"
	SeasonStarted   = "SeasonStarted"
	GameSaved       = "GameSaved"
	GameLoaded      = "GameLoaded"
)

type Event struct {
	Name    string
	Payload any
}

type Handler func(context.Context, Event) error

// Bus is a synchronous in-process event bus. Handlers run in subscription
// order; the first error stops the chain.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

func (b *Bus) Subscribe(name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], handler)
}

func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[e.Name]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Package events dispatches domain events to an explicit, ordered list of
// subscribers. Dispatch is synchronous and runs in the publisher's request.
package events

import (
	"context"
	"fmt"
	"sync"

	"riffmates/internal/models"
)

// Event is implemented by every domain event.
type Event interface {
	EventName() string
}

// AccountCreated is published after a new account row is committed. Raw is
// set for fixture and bulk loads, which must not trigger side effects.
type AccountCreated struct {
	UserID int64
	Raw    bool
}

func (AccountCreated) EventName() string { return "account.created" }

// RecordCreated is published after an account creates a musician or venue.
type RecordCreated struct {
	UserID   int64
	Kind     models.Kind
	RecordID int64
}

func (RecordCreated) EventName() string { return "record.created" }

// LoginFailed is published when a sign-in attempt is rejected.
type LoginFailed struct {
	Username string
	Path     string
}

func (LoginFailed) EventName() string { return "login.failed" }

// Handler reacts to an event. Handlers ignore events they do not care about.
type Handler func(ctx context.Context, e Event) error

// Bus holds the subscriber list.
type Bus struct {
	mu       sync.RWMutex
	handlers []subscriber
}

type subscriber struct {
	name string
	fn   Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe appends a handler. Handlers run in subscription order.
func (b *Bus) Subscribe(name string, fn Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, subscriber{name: name, fn: fn})
}

// Publish delivers e to every subscriber and stops at the first failure.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	handlers := make([]subscriber, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h.fn(ctx, e); err != nil {
			return fmt.Errorf("%s handling %s: %w", h.name, e.EventName(), err)
		}
	}
	return nil
}

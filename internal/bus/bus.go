package bus

import (
	"sync"

	"go.uber.org/zap"

	"github.com/satoshe-sluggers/ownership-indexer/internal/logger"
)

// Handler receives one published event
type Handler[T any] func(event T)

// Bus is a typed in-process event bus. Delivery is synchronous: Publish
// invokes every subscriber in registration order before returning, so a
// subscriber that flips cached state observes the event before any reader
// that polls after Publish returns.
type Bus[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription[T]
}

type subscription[T any] struct {
	id      uint64
	handler Handler[T]
}

// New creates an empty bus
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers a handler and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus[T]) Subscribe(handler Handler[T]) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription[T]{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.unsubscribe(id)
		})
	}
}

func (b *Bus[T]) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to every current subscriber in registration
// order. A panicking subscriber is recovered and logged so it cannot take
// down its siblings or the publisher.
func (b *Bus[T]) Publish(event T) {
	b.mu.RLock()
	subs := make([]subscription[T], len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		deliver(sub.handler, event)
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Bus[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

func deliver[T any](handler Handler[T], event T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Event subscriber panicked", zap.Any("panic", r))
		}
	}()

	handler(event)
}

// Package bus is an in-process publish/subscribe channel with typed topics.
// It decouples UI intents (connect, disconnect, open the picker) from the
// connection store's notifications.
package bus

import (
	"slices"
	"sync"
)

// Topic names a channel carrying payloads of type T.
type Topic[T any] struct {
	name string
}

// NewTopic declares a topic. Topics are identified by name.
func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{name: name}
}

// Name returns the topic's wire name.
func (t Topic[T]) Name() string {
	return t.name
}

// Bus dispatches payloads to subscribers synchronously, in subscription
// order, on the publishing goroutine.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]any
	nextID uint64
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string]map[uint64]any)}
}

// Subscribe registers fn for topic t. The returned function removes the
// subscription and is safe to call more than once.
func Subscribe[T any](b *Bus, t Topic[T], fn func(T)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[t.name] == nil {
		b.subs[t.name] = make(map[uint64]any)
	}
	b.subs[t.name][id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[t.name], id)
			if len(b.subs[t.name]) == 0 {
				delete(b.subs, t.name)
			}
		})
	}
}

// Publish delivers payload to every subscriber of t. Subscribers that were
// registered with a different payload type under the same name are skipped.
func Publish[T any](b *Bus, t Topic[T], payload T) {
	b.mu.RLock()
	ids := make([]uint64, 0, len(b.subs[t.name]))
	for id := range b.subs[t.name] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	handlers := make([]func(T), 0, len(ids))
	for _, id := range ids {
		if fn, ok := b.subs[t.name][id].(func(T)); ok {
			handlers = append(handlers, fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(payload)
	}
}

// Subscribers returns the number of subscriptions to the named topic.
func (b *Bus) Subscribers(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}

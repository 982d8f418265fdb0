package standard

import (
	"slices"
	"sync"
)

// Registry events.
const (
	EventRegister   = "register"
	EventUnregister = "unregister"
)

// Registry is the discovery registry wallets announce themselves to.
type Registry interface {
	// Get returns the registered wallets in registration order.
	Get() []Wallet
	// On subscribes to EventRegister or EventUnregister.
	On(event string, handler func(wallets ...Wallet)) (off func())
}

// MemoryRegistry is an in-process Registry.
type MemoryRegistry struct {
	mu        sync.Mutex
	wallets   []Wallet
	listeners map[string]map[uint64]func(...Wallet)
	nextID    uint64
}

// NewMemoryRegistry creates a registry holding wallets.
func NewMemoryRegistry(wallets ...Wallet) *MemoryRegistry {
	return &MemoryRegistry{
		wallets:   slices.Clone(wallets),
		listeners: make(map[string]map[uint64]func(...Wallet)),
	}
}

// Get returns a snapshot of the registered wallets.
func (r *MemoryRegistry) Get() []Wallet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.wallets)
}

// On subscribes handler to event.
func (r *MemoryRegistry) On(event string, handler func(wallets ...Wallet)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	if r.listeners[event] == nil {
		r.listeners[event] = make(map[uint64]func(...Wallet))
	}
	r.listeners[event][id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.listeners[event], id)
		})
	}
}

// Listeners returns the number of handlers subscribed to event.
func (r *MemoryRegistry) Listeners(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners[event])
}

// Register adds wallets and notifies register handlers. The returned
// function unregisters the same wallets.
func (r *MemoryRegistry) Register(wallets ...Wallet) (unregister func()) {
	r.mu.Lock()
	r.wallets = append(r.wallets, wallets...)
	handlers := r.handlers(EventRegister)
	r.mu.Unlock()

	for _, h := range handlers {
		h(wallets...)
	}

	var once sync.Once
	return func() {
		once.Do(func() { r.Unregister(wallets...) })
	}
}

// Unregister removes the wallets with the given names and notifies
// unregister handlers.
func (r *MemoryRegistry) Unregister(wallets ...Wallet) {
	r.mu.Lock()
	removed := make([]Wallet, 0, len(wallets))
	for _, w := range wallets {
		name := w.Name()
		if i := slices.IndexFunc(r.wallets, func(have Wallet) bool { return have.Name() == name }); i >= 0 {
			r.wallets = slices.Delete(r.wallets, i, i+1)
			removed = append(removed, w)
		}
	}
	handlers := r.handlers(EventUnregister)
	r.mu.Unlock()

	if len(removed) == 0 {
		return
	}
	for _, h := range handlers {
		h(removed...)
	}
}

// handlers must be called with r.mu held.
func (r *MemoryRegistry) handlers(event string) []func(...Wallet) {
	ids := make([]uint64, 0, len(r.listeners[event]))
	for id := range r.listeners[event] {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]func(...Wallet), 0, len(ids))
	for _, id := range ids {
		out = append(out, r.listeners[event][id])
	}
	return out
}

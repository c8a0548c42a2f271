// Package session implements the authenticated session and its security
// lifecycle: token refresh, the inactivity sign-out timer and the lock that
// engages after the app was in the background.
package session

import "sync"

// AppState is the coarse application lifecycle state.
type AppState int

const (
	StateActive AppState = iota
	StateBackground
)

// AppStateSource delivers lifecycle transitions to subscribers. Subscribe
// returns an unsubscribe function.
type AppStateSource interface {
	Subscribe(fn func(AppState)) (unsubscribe func())
}

// StateBus is a simple in-process AppStateSource. The platform layer
// publishes transitions into it.
type StateBus struct {
	mu   sync.Mutex
	subs map[int]func(AppState)
	next int
}

func NewStateBus() *StateBus {
	return &StateBus{subs: make(map[int]func(AppState))}
}

func (b *StateBus) Subscribe(fn func(AppState)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers the state to every subscriber, synchronously and in
// unspecified order.
func (b *StateBus) Publish(state AppState) {
	b.mu.Lock()
	fns := make([]func(AppState), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

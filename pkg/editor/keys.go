package editor

import (
	"slices"
	"sync"
)

// KeySource delivers key presses to subscribers. The returned function
// ends the subscription.
type KeySource interface {
	Subscribe(fn func(KeyEvent)) func()
}

// KeyBus is a KeySource that surfaces publish into. Handlers run
// synchronously in Publish, in subscription order.
type KeyBus struct {
	mu   sync.Mutex
	subs map[int]func(KeyEvent)
	next int
}

// NewKeyBus creates a bus with no subscribers.
func NewKeyBus() *KeyBus {
	return &KeyBus{subs: make(map[int]func(KeyEvent))}
}

// Subscribe registers fn.
func (b *KeyBus) Subscribe(fn func(KeyEvent)) func() {
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

// Publish delivers ev to every subscriber.
func (b *KeyBus) Publish(ev KeyEvent) {
	b.mu.Lock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(KeyEvent), len(ids))
	for i, id := range ids {
		fns[i] = b.subs[id]
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len returns the number of subscribers.
func (b *KeyBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

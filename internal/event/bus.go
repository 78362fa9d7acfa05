package event

import (
	"sync"
	"sync/atomic"
)

// Handler receives published events.
type Handler func(Event)

// PanicHandler is called when a handler panics during delivery.
type PanicHandler func(ev Event, recovered any)

// Subscription is a handle for an active subscription.
type Subscription struct {
	id    uint64
	topic Topic
	fn    Handler
}

// Topic returns the topic the subscription listens on.
func (s *Subscription) Topic() Topic { return s.topic }

// Bus is a synchronous in-process event bus.
//
// Delivery happens on the publisher's goroutine, in subscription order.
// A panicking handler is recovered and reported to the panic handler;
// remaining handlers still run. All methods are safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic][]*Subscription

	panicHandler PanicHandler

	// Stats
	published atomic.Uint64
	delivered atomic.Uint64
	panics    atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets the handler invoked when a subscriber panics.
func WithPanicHandler(fn PanicHandler) BusOption {
	return func(b *Bus) {
		b.panicHandler = fn
	}
}

// NewBus creates an event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subs: make(map[Topic][]*Subscription),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for a topic and returns its subscription.
func (b *Bus) Subscribe(topic Topic, fn Handler) *Subscription {
	if fn == nil {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{id: b.nextID, topic: topic, fn: fn}
	b.subs[topic] = append(b.subs[topic], sub)
	return sub
}

// Unsubscribe removes a subscription. Unknown or nil subscriptions are a
// no-op.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.subs[sub.topic]
	for i, s := range list {
		if s.id == sub.id {
			b.subs[sub.topic] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// Publish delivers an event to all subscribers of its topic.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	list := b.subs[ev.Topic]
	// Snapshot so handlers can subscribe/unsubscribe during delivery.
	subs := make([]*Subscription, len(list))
	copy(subs, list)
	b.mu.RUnlock()

	b.published.Add(1)

	for _, sub := range subs {
		b.dispatch(ev, sub)
	}
}

func (b *Bus) dispatch(ev Event, sub *Subscription) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			if b.panicHandler != nil {
				b.panicHandler(ev, r)
			}
		}
	}()

	sub.fn(ev)
	b.delivered.Add(1)
}

// Stats is a snapshot of bus counters.
type Stats struct {
	Published   uint64
	Delivered   uint64
	Panics      uint64
	Subscribers int
}

// Stats returns current bus statistics.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	count := 0
	for _, list := range b.subs {
		count += len(list)
	}
	b.mu.RUnlock()

	return Stats{
		Published:   b.published.Load(),
		Delivered:   b.delivered.Load(),
		Panics:      b.panics.Load(),
		Subscribers: count,
	}
}

package watch

import "sync"

// EventKind discriminates a normalized change event.
type EventKind int

const (
	Changed EventKind = iota
	Deleted
)

// Event is a normalized filesystem change, fanned out to every session.
type Event struct {
	Kind EventKind
	Path string // absolute
}

// busCapacity is the bounded channel size each subscriber gets. The
// observer never blocks on a slow session; a full buffer disconnects
// that session instead.
const busCapacity = 1000

// Subscription is a session's view onto the bus: a bounded event channel
// plus a one-shot lag signal. A session that falls behind has its Events
// channel closed and a value left on Lagged. Reading code should check
// Lagged (non-blocking) immediately after Events closes to tell a
// lag-induced close from Unsubscribe.
type Subscription struct {
	id     uint64
	events chan Event
	lagged chan struct{}
}

func (s *Subscription) Events() <-chan Event    { return s.events }
func (s *Subscription) Lagged() <-chan struct{} { return s.lagged }

// Bus is a single-producer, many-consumer bounded broadcast of change
// events. A consumer that can't keep up is disconnected rather than
// allowed to block the producer.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*Subscription
}

// NewBus constructs an empty broadcast bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[uint64]*Subscription)}
}

// Subscribe registers a new consumer and returns its Subscription.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription{
		id:     b.nextID,
		events: make(chan Event, busCapacity),
		lagged: make(chan struct{}, 1),
	}
	b.subs[sub.id] = sub
	return sub
}

// Unsubscribe removes a consumer. Safe to call more than once.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub.id]; ok {
		delete(b.subs, sub.id)
		close(sub.events)
	}
}

// Publish fans e out to every current subscriber. A subscriber whose
// buffer is full is dropped and marked lagged; Publish never blocks.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subs {
		select {
		case sub.events <- e:
		default:
			sub.lagged <- struct{}{}
			close(sub.events)
			delete(b.subs, id)
		}
	}
}

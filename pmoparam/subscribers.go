package pmoparam

import (
	"sync"

	"github.com/google/uuid"
)

// SubscriberID identifies one subscription for later removal. Function values
// are not comparable in Go, so unsubscription is by token rather than by
// callback identity; subscribing the same function twice yields two
// independent subscriptions, each notified per change.
type SubscriberID = uuid.UUID

type subscription struct {
	id SubscriberID
	fn func(float64)
}

// Subscribe registers fn for change notifications. The subscription takes
// effect on the next poll tick, never retroactively for the current one.
// A nil callback is ignored and yields the zero id.
func (p *Param) Subscribe(fn func(float64)) SubscriberID {
	if fn == nil {
		return uuid.Nil
	}
	id := uuid.New()
	p.mu.Lock()
	p.subs = append(p.subs, subscription{id: id, fn: fn})
	p.mu.Unlock()
	return id
}

// Unsubscribe removes the subscription with the given id. Unknown ids are a
// no-op, not an error, and other subscriptions are unaffected.
func (p *Param) Unsubscribe(id SubscriberID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.subs[:0]
	for _, s := range p.subs {
		if s.id != id {
			kept = append(kept, s)
		}
	}
	p.subs = kept
}

// Watch is a channel-flavoured subscription: changed values are delivered on
// the returned channel, dropped without blocking when the receiver lags
// behind the buffer. The returned function cancels the subscription and
// closes the channel; it is safe to call more than once.
func (p *Param) Watch(buffer int) (<-chan float64, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan float64, buffer)

	var mu sync.Mutex
	closed := false

	id := p.Subscribe(func(v float64) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- v:
		default: // receiver is behind, drop
		}
	})

	cancel := func() {
		p.Unsubscribe(id)
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			close(ch)
		}
	}
	return ch, cancel
}

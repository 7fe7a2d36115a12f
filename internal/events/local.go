package events

import (
	"context"
	"sync"
)

type noopBus struct{}

// NewNoopBus drops every event. Used when no broker is configured.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(context.Context, Event) error      { return nil }
func (noopBus) Subscribe(context.Context, Handler) error { return nil }
func (noopBus) Close() error                             { return nil }

// MemoryBus fans events out to in-process subscribers and keeps a copy of
// everything published.
type MemoryBus struct {
	mu        sync.Mutex
	published []Event
	subs      map[int]Handler
	next      int
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: map[int]Handler{}}
}

func (b *MemoryBus) Publish(_ context.Context, ev Event) error {
	b.mu.Lock()
	b.published = append(b.published, ev)
	handlers := make([]Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
	return nil
}

func (b *MemoryBus) Subscribe(ctx context.Context, fn Handler) error {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()
	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *MemoryBus) Close() error { return nil }

// Published returns the events of type t, or all events when t is empty.
func (b *MemoryBus) Published(t Type) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Event
	for _, ev := range b.published {
		if t == "" || ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

// Package uistream fans shell state changes out to connected chrome pages so
// the tab strip, address bar and status indicator re-render live.
package uistream

import (
	"sync"
	"sync/atomic"
)

const subscriberBufSize = 64

// Event is one UI refresh push. Kind selects the fragment to update
// ("tabs", "status", "navigate"); Payload carries the rendered fragment or a
// small JSON document.
type Event struct {
	Kind    string `json:"kind"`
	Payload string `json:"payload"`
}

// Broker fans out events to all subscribed shell pages.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[int64]chan Event
	nextID      atomic.Int64
}

func NewBroker() *Broker {
	return &Broker{subscribers: make(map[int64]chan Event)}
}

// Subscribe registers a client. The channel is buffered; slow consumers have
// events dropped.
func (b *Broker) Subscribe() (int64, <-chan Event) {
	id := b.nextID.Add(1)
	ch := make(chan Event, subscriberBufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Broker) Unsubscribe(id int64) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers without blocking.
func (b *Broker) Publish(kind, payload string) {
	evt := Event{Kind: kind, Payload: payload}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
}

// ClientCount returns the number of connected pages.
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

package pubsub

import (
	"sync"
)

type Subscriber[T any] chan T

type PubSub[T any] struct {
	mu          sync.RWMutex
	subscribers map[Subscriber[T]]struct{}
	buffer      int
}

// NewPubSub returns a broker whose subscriber channels hold buffer
// messages each.
func NewPubSub[T any](buffer int) *PubSub[T] {
	return &PubSub[T]{
		subscribers: make(map[Subscriber[T]]struct{}),
		buffer:      buffer,
	}
}

// Subscribe returns a new channel subscribed to broadcasts.
func (ps *PubSub[T]) Subscribe() Subscriber[T] {
	ch := make(Subscriber[T], ps.buffer)
	ps.mu.Lock()
	ps.subscribers[ch] = struct{}{}
	ps.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel from subscribers and closes it.
func (ps *PubSub[T]) Unsubscribe(ch Subscriber[T]) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if _, ok := ps.subscribers[ch]; !ok {
		return
	}
	delete(ps.subscribers, ch)
	close(ch)
}

// Publish sends msg to all subscribers. A subscriber whose buffer is full
// misses the message.
func (ps *PubSub[T]) Publish(msg T) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for ch := range ps.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (ps *PubSub[T]) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers)
}

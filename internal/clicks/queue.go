package clicks

import (
	"sync"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// MinCapacity is the smallest queue the constructor will build.
const MinCapacity = 100

// Queue is a bounded FIFO of click events with a single consumer.
// Offer never blocks; Close is one-way and lets the consumer drain what is
// already buffered.
type Queue struct {
	mu     sync.RWMutex
	ch     chan domain.ClickEvent
	closed bool
}

// NewQueue builds a queue holding at most capacity events. Values below
// MinCapacity are raised to it.
func NewQueue(capacity int) *Queue {
	if capacity < MinCapacity {
		capacity = MinCapacity
	}
	return &Queue{ch: make(chan domain.ClickEvent, capacity)}
}

// Offer enqueues ev without blocking. It returns false when the queue is
// full or closed.
func (q *Queue) Offer(ev domain.ClickEvent) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		queueDropped.Inc()
		return false
	}
	select {
	case q.ch <- ev:
		queueOffered.Inc()
		queueDepth.Set(float64(len(q.ch)))
		return true
	default:
		queueDropped.Inc()
		return false
	}
}

// Close stops accepting events. Calling it more than once is safe.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}

// Events is the consumer side. The channel is closed after Close once the
// buffer is empty.
func (q *Queue) Events() <-chan domain.ClickEvent { return q.ch }

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *Queue) Len() int { return len(q.ch) }
func (q *Queue) Cap() int { return cap(q.ch) }

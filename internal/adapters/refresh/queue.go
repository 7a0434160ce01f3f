// Package refresh provides the trigger queue and the single-flight runner
// that drives ranking recomputation. Periodic ticks and manual requests
// both land here; the runner guarantees at most one refresh is in flight.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/pucklab/puckrank/pkg/metrics"
)

// Default queue configuration constants.
const defaultQueueCapacity = 64

// Trigger is one request to recompute the rankings.
type Trigger struct {
	ID          string
	Source      string // "manual", "periodic" or "startup"
	RequestedAt time.Time
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics
// for refresh triggers.
type Queue interface {
	// Enqueue adds a trigger to the queue.
	// Returns false if the queue is full and the trigger was not enqueued.
	Enqueue(ctx context.Context, t Trigger) bool

	// Dequeue returns a channel that will receive triggers as they become
	// available. The channel is closed when the queue is closed.
	Dequeue(ctx context.Context) <-chan Trigger

	// Len returns the current number of queued triggers.
	Len(ctx context.Context) int

	// Close gracefully shuts down the queue.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	triggers chan Trigger
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory trigger queue.
func NewInMemoryQueue(opts ...QueueOption) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.triggers = make(chan Trigger, q.capacity)
	metrics.UpdateTriggerQueueSize(0)

	return q
}

// Enqueue adds a trigger to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, t Trigger) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("refresh_queue", "closed")
		return false
	}

	select {
	case q.triggers <- t:
		metrics.RecordTriggerAccepted()
		metrics.UpdateTriggerQueueSize(len(q.triggers))
		return true
	case <-ctx.Done():
		metrics.RecordErrorByComponent("refresh_queue", "context_cancelled")
		return false
	default:
		metrics.RecordTriggerCoalesced()
		return false
	}
}

// Dequeue returns a channel that will receive triggers as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Trigger {
	out := make(chan Trigger)
	go func() {
		defer close(out)
		for t := range q.triggers {
			select {
			case out <- t:
				metrics.UpdateTriggerQueueSize(len(q.triggers))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued triggers.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	size := len(q.triggers)
	metrics.UpdateTriggerQueueSize(size)
	return size
}

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.triggers)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

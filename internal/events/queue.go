package events

import "sync"

// Queue is a FIFO of pending events drained once per pipeline cycle.
type Queue[T any] struct {
	mu      sync.Mutex
	pending []T
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

func (q *Queue[T]) Push(events ...T) {
	if len(events) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, events...)
}

// Drain removes and returns up to max events in FIFO order. A max of zero or
// less drains everything.
func (q *Queue[T]) Drain(max int) []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	if max <= 0 || max >= len(q.pending) {
		batch := q.pending
		q.pending = nil
		return batch
	}
	batch := append([]T(nil), q.pending[:max]...)
	q.pending = append([]T(nil), q.pending[max:]...)
	return batch
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
